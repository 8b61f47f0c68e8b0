// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The catalog in issue.go holds longer Markdown guidance
// for the failures a packaging run hits most often (no JDK, a missing host
// packaging tool, an external tool exiting non-zero), rendered with glamour.
package issue
