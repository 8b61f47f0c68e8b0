// SPDX-License-Identifier: MPL-2.0

// Package packager turns the runtime image into a platform installer.
//
// Each target OS is one entry in a closed strategy table. Every strategy
// shares the jpackage argument builder and adds its own leaves: Linux builds
// a deb or rpm, macOS an app image that is code-signed and wrapped in a disk
// image with dmgbuild, Windows an exe installer. Failures of the external
// tools are reported in the Result rather than aborting the run.
package packager
