// SPDX-License-Identifier: MPL-2.0

// Package platform models the closed set of operating systems pgbuild can
// package for.
//
// Packaging differs per host (jpackage only produces installers for the OS it
// runs on), so the target is always derived from runtime.GOOS. Everything that
// depends on the target (sentinel file names, module path separators, which
// packager strategy runs) is keyed by the OS value defined here rather than by
// scattered string comparisons.
package platform
