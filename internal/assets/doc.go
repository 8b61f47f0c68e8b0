// SPDX-License-Identifier: MPL-2.0

// Package assets writes the generated resources the application bundles:
// the documentation and example lexicon archives, the build date stamp and
// the version resource.
package assets
