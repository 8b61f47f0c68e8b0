// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/install"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/internal/pipeline"
	"github.com/darisadesigns/pgbuild/internal/version"
	"github.com/darisadesigns/pgbuild/pkg/types"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// guidanceStyle is the glamour style catalog guidance is rendered with.
const guidanceStyle = "dark"

// buildFlags are the flags of the packaging run. Names follow the flags the
// PolyGlot release scripts already pass.
type buildFlags struct {
	steps           []string
	release         bool
	copyDestination string
	skipTests       bool
	javaHome        string
	macSignIdentity string
	macDistribCert  string
	intelBuild      bool
	dryRun          bool
}

func (bf *buildFlags) register(f *pflag.FlagSet) {
	f.StringSliceVar(&bf.steps, "step", nil, "step to run: docs, build, clean, image or dist (repeatable; default all)")
	f.BoolVar(&bf.release, "release", false, "build a release instead of a beta")
	f.StringVar(&bf.copyDestination, "copyDestination", "", "copy the finished installer into this directory")
	f.BoolVar(&bf.skipTests, "skipTests", false, "pass -DskipTests to Maven")
	f.StringVar(&bf.javaHome, "java_home_o", "", "JDK root to use instead of JAVA_HOME")
	f.StringVar(&bf.macSignIdentity, "mac_sign_identity", "", "codesign identity for the macOS app bundle")
	f.StringVar(&bf.macDistribCert, "mac_distrib_cert", "", "codesign identity for the macOS disk image")
	f.BoolVar(&bf.intelBuild, "intelBuild", false, "link the Intel JavaFX artifacts on macOS")
	f.BoolVar(&bf.dryRun, "dry-run", false, "print external commands instead of running them; nothing is written or removed")
}

// runBuild resolves the invocation into config.Options and runs the pipeline.
// The sentinel is written before anything that can fail except flag parsing.
// Reportable problems are printed but still exit 0; the sentinel file in the
// copy destination is what tells a release script the installer is missing.
func runBuild(cmd *cobra.Command, app *App, rf *rootFlags, bf *buildFlags) error {
	ctx := cmd.Context()
	out := app.stdout

	steps, err := config.ParseSteps(bf.steps)
	if err != nil {
		return fail(cmd, app, types.ExitUsage, err, rf.verbose)
	}

	if bf.javaHome != "" {
		fmt.Fprintln(out, "JAVA_HOME overridden to: "+CmdStyle.Render(bf.javaHome))
	}

	if bf.release {
		fmt.Fprintln(out, releaseBannerStyle.Render(version.Banner(true)))
	} else {
		fmt.Fprintln(out, betaBannerStyle.Render(version.Banner(false)))
	}

	var sentinel *install.Sentinel
	if bf.copyDestination != "" {
		fmt.Fprintln(out, "Destination for final install file set to: "+CmdStyle.Render(bf.copyDestination))
		s := install.NewSentinel(bf.copyDestination, app.Target)
		if !bf.dryRun {
			if err := s.Create(); err != nil {
				return fail(cmd, app, types.ExitFailure, err, rf.verbose)
			}
		}
		sentinel = &s
	}

	projectDir, err := filepath.Abs(rf.projectDir)
	if err != nil {
		return fail(cmd, app, types.ExitFailure, fmt.Errorf("failed to resolve project directory: %w", err), rf.verbose)
	}

	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rf.configFile, ProjectDir: projectDir})
	if err != nil {
		return fail(cmd, app, types.ExitFailure, err, rf.verbose)
	}
	if loaded.Source != "" {
		slog.Debug("loaded project config", "path", loaded.Source)
	}

	javaHome, err := config.ResolveJavaHome(bf.javaHome, loaded.Config)
	if err != nil {
		return fail(cmd, app, types.ExitFailure, err, rf.verbose)
	}
	slog.Debug("resolved java home", "path", javaHome)

	opts := config.Options{
		ProjectDir:      projectDir,
		Steps:           steps,
		Release:         bf.release,
		CopyDestination: bf.copyDestination,
		SkipTests:       bf.skipTests,
		JavaHome:        javaHome,
		MacSignIdentity: bf.macSignIdentity,
		MacDistribCert:  bf.macDistribCert,
		IntelBuild:      bf.intelBuild,
		DryRun:          bf.dryRun,
		Verbose:         rf.verbose,
	}

	p := pipeline.New(opts, loaded.Config, app.Target, pipeline.Deps{
		Runner:   app.NewRunner(opts.DryRun),
		Clock:    app.Clock,
		Out:      out,
		Sentinel: sentinel,
	})
	report, err := p.Run(ctx)
	if err != nil {
		return fail(cmd, app, types.ExitFailure, err, rf.verbose)
	}

	for _, problem := range report.Problems {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Problem: ")+formatErrorForDisplay(problem, rf.verbose))
	}
	fmt.Fprintln(out, SuccessStyle.Render("Done!"))
	return nil
}

// fail prints err with its catalog guidance and returns the exit status.
// Cobra's own error printing is silenced since the error is already shown.
func fail(cmd *cobra.Command, app *App, code types.ExitCode, err error, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if guidance := ae.Guidance(); guidance != nil {
			if rendered, renderErr := guidance.Render(guidanceStyle); renderErr == nil {
				fmt.Fprint(app.stderr, rendered)
			}
		}
	}

	return newExitError(code, err)
}
