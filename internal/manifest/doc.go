// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the few values pgbuild needs from a Maven pom.xml:
// the project version and the versions of selected dependencies.
package manifest
