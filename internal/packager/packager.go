// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/internal/jdk"
	"github.com/darisadesigns/pgbuild/internal/runtime"
	"github.com/darisadesigns/pgbuild/pkg/platform"

	"github.com/google/uuid"
)

// ErrUnsigned marks a macOS app image left without any signature.
var ErrUnsigned = errors.New("no signing identity given")

type (
	// Settings are the inputs of one packaging run.
	Settings struct {
		// ProjectDir is the working directory of every packaging command.
		ProjectDir string
		JavaHome   string
		// Version is the manifest version.
		Version string
		// BuildNumber is the installer build number derived from Version.
		BuildNumber string
		Release     bool
		// SignIdentity is the macOS developer signing identity.
		SignIdentity string
		// DistribIdentity is the macOS distribution signing identity.
		DistribIdentity string
		// Year closes the copyright range.
		Year int
		// DryRun leaves the filesystem alone and skips checks for files the
		// packager would have produced.
		DryRun bool
		Config *config.Config
	}

	// Result is the outcome of a packaging run.
	Result struct {
		// Artifact is the installer path, or "" when none was produced.
		Artifact string
		// Problems are reportable failures that did not stop the run.
		Problems []error
	}

	// Packager drives jpackage and the signing tools through a Runner.
	Packager struct {
		runner  runtime.Runner
		newUUID func() string
	}

	// strategy is one row of the per-OS table.
	strategy struct {
		// prepare runs before jpackage.
		prepare func(s Settings) error
		// appVersion picks the --app-version value.
		appVersion func(s Settings) string
		// assets returns the file association and icon paths.
		assets func(cfg *config.Config) (fileAssociations, icon string)
		// leaves returns the OS-specific jpackage arguments.
		leaves func(p *Packager, s Settings) []string
		// finish runs after jpackage and fills in the result.
		finish func(ctx context.Context, p *Packager, s Settings, jpackageOK bool, res *Result)
	}
)

var strategies = map[platform.OS]strategy{
	platform.OSLinux:   linuxStrategy,
	platform.OSMacOS:   macStrategy,
	platform.OSWindows: windowsStrategy,
}

// New creates a Packager that runs commands through runner.
func New(runner runtime.Runner) *Packager {
	return &Packager{runner: runner, newUUID: uuid.NewString}
}

// Package builds the installer for target.
// The returned error is reserved for failures that must stop the pipeline;
// tool failures are collected in Result.Problems.
func (p *Packager) Package(ctx context.Context, target platform.OS, s Settings) (Result, error) {
	st, ok := strategies[target]
	if !ok {
		return Result{}, issue.NewErrorContext().
			WithOperation("package installer").
			WithResource(target.String()).
			WithIssue(issue.UnsupportedHostId).
			Wrap(&platform.UnsupportedOSError{GOOS: target.String()}).
			BuildError()
	}
	if s.Config == nil {
		s.Config = config.DefaultConfig()
	}

	if st.prepare != nil && !s.DryRun {
		if err := st.prepare(s); err != nil {
			return Result{}, err
		}
	}

	fileAssociations, icon := st.assets(s.Config)
	args := append(commonArgs(s, fileAssociations, icon, st.appVersion(s)), st.leaves(p, s)...)
	cmd := runtime.NewCommand(jdk.Tool(s.JavaHome, jdk.Jpackage), args...).In(s.ProjectDir)

	slog.Info("running jpackage", "os", target.String(), "app_version", st.appVersion(s))

	var res Result
	jr := p.runner.Run(ctx, cmd)
	if !jr.Success() {
		res.report(toolFailure("jpackage", cmd, jr))
	}

	st.finish(ctx, p, s, jr.Success(), &res)
	return res, nil
}

// commonArgs are the jpackage arguments every target shares.
func commonArgs(s Settings, fileAssociations, icon, appVersion string) []string {
	prod := s.Config.Product
	args := []string{
		"--runtime-image", s.Config.Paths.ImageDir,
		"--name", prod.Name,
		"--module", prod.Module + "/" + prod.MainClass,
		"--copyright", Copyright(prod.CopyrightSince, s.Year, prod.CopyrightHolder),
		"--description", prod.Description,
	}
	if fileAssociations != "" {
		args = append(args, "--file-associations", fileAssociations)
	}
	if icon != "" {
		args = append(args, "--icon", icon)
	}
	return append(args, "--app-version", appVersion)
}

// Copyright renders "<since>-<year> <holder>".
func Copyright(since, year int, holder string) string {
	return strconv.Itoa(since) + "-" + strconv.Itoa(year) + " " + holder
}

func (r *Result) report(err error) {
	slog.Warn(err.Error())
	r.Problems = append(r.Problems, err)
}

// toolFailure wraps a failed command as a reportable problem.
func toolFailure(tool string, cmd runtime.Command, res *runtime.Result) error {
	slog.Debug("command failed", "command", cmd.String(), "exit_code", int(res.ExitCode))
	return issue.NewErrorContext().
		WithOperation("run " + tool).
		WithSuggestion("Check the " + tool + " output above for the cause").
		WithIssue(issue.ExternalToolFailedId).
		Wrap(res.Err()).
		BuildError()
}
