// SPDX-License-Identifier: MPL-2.0

// Package install publishes finished installers to the copy destination and
// manages the failure sentinel that marks an incomplete run there.
package install
