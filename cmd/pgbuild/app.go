// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/darisadesigns/pgbuild/internal/clock"
	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/runtime"
	"github.com/darisadesigns/pgbuild/pkg/platform"
)

type (
	// App wires the CLI to its collaborators. Command handlers receive an App
	// and never reach for package-level state.
	App struct {
		// Target is the OS the installer is built for, normally the host.
		Target platform.OS
		Clock  clock.Clock
		// Config resolves the project configuration.
		Config config.Provider
		// NewRunner returns the runner external commands go through.
		NewRunner func(dryRun bool) runtime.Runner
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Target    platform.OS
		Clock     clock.Clock
		Config    config.Provider
		NewRunner func(dryRun bool) runtime.Runner
		Stdout    io.Writer
		Stderr    io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Target == 0 {
		target, err := platform.Current()
		if err != nil {
			return nil, err
		}
		deps.Target = target
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewRunner == nil {
		stdout, stderr := deps.Stdout, deps.Stderr
		deps.NewRunner = func(dryRun bool) runtime.Runner {
			if dryRun {
				return runtime.NewDryRunner(stdout)
			}
			return &runtime.NativeRunner{Stdout: stdout, Stderr: stderr}
		}
	}

	return &App{
		Target:    deps.Target,
		Clock:     clock.OrReal(deps.Clock),
		Config:    deps.Config,
		NewRunner: deps.NewRunner,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}, nil
}
