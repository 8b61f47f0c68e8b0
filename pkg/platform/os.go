// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Supported packaging targets.
const (
	OSLinux OS = iota + 1
	OSMacOS
	OSWindows
)

// ErrUnsupportedOS is the sentinel error wrapped by UnsupportedOSError.
var ErrUnsupportedOS = errors.New("unsupported operating system")

type (
	// OS is a packaging target. The zero value is not a valid target.
	OS int

	// UnsupportedOSError is returned when a GOOS value has no packaging target.
	UnsupportedOSError struct {
		GOOS string
	}
)

// Error implements the error interface.
func (e *UnsupportedOSError) Error() string {
	supported := make([]string, 0, len(All()))
	for _, o := range All() {
		supported = append(supported, o.GOOS())
	}
	return fmt.Sprintf("unsupported operating system %q (supported: %s)", e.GOOS, strings.Join(supported, ", "))
}

// Unwrap returns ErrUnsupportedOS for errors.Is compatibility.
func (e *UnsupportedOSError) Unwrap() error { return ErrUnsupportedOS }

// All returns every supported target in a stable order.
func All() []OS {
	return []OS{OSLinux, OSMacOS, OSWindows}
}

// Current returns the target for the running host.
func Current() (OS, error) {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a runtime.GOOS value to a target.
func FromGOOS(goos string) (OS, error) {
	switch goos {
	case Linux:
		return OSLinux, nil
	case Darwin:
		return OSMacOS, nil
	case Windows:
		return OSWindows, nil
	default:
		return 0, &UnsupportedOSError{GOOS: goos}
	}
}

// GOOS returns the runtime.GOOS spelling of the target.
func (o OS) GOOS() string {
	switch o {
	case OSLinux:
		return Linux
	case OSMacOS:
		return Darwin
	case OSWindows:
		return Windows
	default:
		return ""
	}
}

// SystemName returns the kernel name reported by uname (or "Windows"), which
// is what external monitors expect in sentinel file names.
func (o OS) SystemName() string {
	switch o {
	case OSLinux:
		return "Linux"
	case OSMacOS:
		return "Darwin"
	case OSWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// PathListSeparator returns the separator used in module paths and PATH-like
// lists on the target.
func (o OS) PathListSeparator() string {
	if o == OSWindows {
		return ";"
	}
	return ":"
}

// String returns a human readable target name.
func (o OS) String() string {
	switch o {
	case OSLinux:
		return "linux"
	case OSMacOS:
		return "macos"
	case OSWindows:
		return "windows"
	default:
		return fmt.Sprintf("OS(%d)", int(o))
	}
}

// IsValid reports whether o is one of the supported targets.
func (o OS) IsValid() bool {
	return o >= OSLinux && o <= OSWindows
}
