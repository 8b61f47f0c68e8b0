// SPDX-License-Identifier: MPL-2.0

// Package jdk locates JDK tools and the Maven artifacts that make up the
// jlink module path.
package jdk
