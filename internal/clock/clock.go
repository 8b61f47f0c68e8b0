// SPDX-License-Identifier: MPL-2.0

// Package clock abstracts the wall clock so build numbers and timestamps can
// be pinned in tests.
package clock

import "time"

type (
	// Clock abstracts time operations for deterministic testing.
	Clock interface {
		// Now returns the current time.
		Now() time.Time
	}

	// Real implements Clock using actual system time.
	Real struct{}

	// Fixed is a Clock that always reports the same instant.
	Fixed time.Time
)

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// OrReal returns c, or Real when c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real{}
	}
	return c
}
