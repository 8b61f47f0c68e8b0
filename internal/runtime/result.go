// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"

	"github.com/darisadesigns/pgbuild/pkg/types"
)

// ExitCommandNotFound mirrors the shell's status for an unknown program.
const ExitCommandNotFound types.ExitCode = 127

// ErrToolNotFound is returned when a program cannot be resolved on PATH.
var ErrToolNotFound = errors.New("tool not found in PATH")

type (
	// Result contains the outcome of a command execution.
	Result struct {
		// ExitCode is the exit code of the process.
		ExitCode types.ExitCode
		// Error is set when the process could not be started at all.
		Error error
	}

	// ToolNotFoundError reports a program missing from PATH.
	ToolNotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, ErrToolNotFound)
}

// Unwrap returns ErrToolNotFound for errors.Is compatibility.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code types.ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination.
func NewExitCodeResult(code types.ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Success returns true if the command executed successfully.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// Err converts an unsuccessful result into an error, or nil on success.
func (r *Result) Err() error {
	switch {
	case r.Success():
		return nil
	case r.Error != nil:
		return r.Error
	default:
		return fmt.Errorf("exit status %d", r.ExitCode)
	}
}
