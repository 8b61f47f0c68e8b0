// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/darisadesigns/pgbuild/pkg/types"
)

// exitError carries the process exit code of a failed command back to Execute
// after the failure has already been reported on stderr.
type exitError struct {
	code  types.ExitCode
	cause error
}

func newExitError(code types.ExitCode, cause error) error {
	return &exitError{code: code, cause: cause}
}

func (e *exitError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("pgbuild exited with code %d", e.code)
	}
	return e.cause.Error()
}

func (e *exitError) Unwrap() error { return e.cause }

// exitCodeOf maps a command result to a process exit code. Errors that did
// not pass through fail are general failures.
func exitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return types.ExitFailure
}
