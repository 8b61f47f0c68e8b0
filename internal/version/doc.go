// SPDX-License-Identifier: MPL-2.0

// Package version derives installer build numbers and the version resource
// text from the manifest version.
package version
