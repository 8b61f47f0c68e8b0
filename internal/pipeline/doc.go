// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs the packaging steps in their fixed order:
// version resolution, then docs, build, clean, image and dist, each only when
// selected. Fatal failures stop the run and wrap ErrFatal; everything else is
// collected as a problem on the Report.
package pipeline
