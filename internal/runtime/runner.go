// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/darisadesigns/pgbuild/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/safeexec"
)

type (
	// Runner executes external commands.
	Runner interface {
		// Run executes cmd and waits for it to exit. It never returns nil.
		Run(ctx context.Context, cmd Command) *Result
		// LookPath resolves a program name on PATH.
		LookPath(name string) (string, error)
	}

	// NativeRunner executes commands on the host.
	NativeRunner struct {
		// Stdout and Stderr receive the child's output; nil means os.Stdout/os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// DryRunner prints commands instead of running them.
	DryRunner struct {
		// Out receives one line per command; nil means os.Stdout.
		Out io.Writer
		// Available lists programs LookPath should pretend exist. Nil means
		// the real PATH is consulted.
		Available map[string]bool
	}
)

var dryRunPrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("[dry-run]")

// NewNativeRunner creates a runner that streams child output to the process's
// own stdout and stderr.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// Run executes cmd with os/exec.
func (r *NativeRunner) Run(ctx context.Context, cmd Command) *Result {
	program := cmd.Name
	if !strings.ContainsAny(program, `/\`) {
		resolved, err := r.LookPath(program)
		if err != nil {
			return NewErrorResult(ExitCommandNotFound, err)
		}
		program = resolved
	}

	slog.Debug("running external command", "command", cmd.String(), "dir", cmd.Dir)

	c := exec.CommandContext(ctx, program, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = writerOr(r.Stdout, os.Stdout)
	c.Stderr = writerOr(r.Stderr, os.Stderr)

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(types.ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(types.ExitFailure, fmt.Errorf("failed to execute %s: %w", cmd.Name, err))
	}

	return NewSuccessResult()
}

// LookPath resolves name on PATH without consulting the current directory.
func (r *NativeRunner) LookPath(name string) (string, error) {
	return lookPath(name)
}

// NewDryRunner creates a runner that prints each command to out.
func NewDryRunner(out io.Writer) *DryRunner {
	return &DryRunner{Out: out}
}

// Run prints cmd and reports success.
func (r *DryRunner) Run(_ context.Context, cmd Command) *Result {
	line := cmd.String()
	if cmd.Dir != "" {
		line = "(cd " + quote(cmd.Dir) + " && " + line + ")"
	}
	fmt.Fprintln(writerOr(r.Out, os.Stdout), dryRunPrefix, line)
	return NewSuccessResult()
}

// LookPath consults Available when set, the real PATH otherwise.
func (r *DryRunner) LookPath(name string) (string, error) {
	if r.Available != nil {
		if r.Available[name] {
			return name, nil
		}
		return "", &ToolNotFoundError{Name: name}
	}
	return lookPath(name)
}

func lookPath(name string) (string, error) {
	p, err := safeexec.LookPath(name)
	if err != nil {
		return "", &ToolNotFoundError{Name: name}
	}
	return p, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
