// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pgbuild command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// AppName is the binary name and log prefix.
const AppName = "pgbuild"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the flags shared by every subcommand.
type rootFlags struct {
	verbose    bool
	projectDir string
	configFile string
}

// NewRootCommand builds the command tree. Running the root command runs the
// packaging pipeline.
func NewRootCommand(app *App) *cobra.Command {
	rf := &rootFlags{}
	bf := &buildFlags{}

	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: "Build and package PolyGlot",
		Long: TitleStyle.Render(AppName) + SubtitleStyle.Render(" - build and package PolyGlot") + `

pgbuild compiles PolyGlot with Maven, links a trimmed Java runtime image and
wraps it in the native installer of the current OS (deb/rpm, dmg or exe).

` + SubtitleStyle.Render("Steps (run in this order):") + `
  docs    zip the documentation and example lexicons into the assets
  build   stamp the build date and run mvn clean package
  clean   remove the jmod output and the previous runtime image
  image   create the jmod and link the runtime image with jlink
  dist    run jpackage (and codesign/dmgbuild on macOS)

` + SubtitleStyle.Render("Examples:") + `
  pgbuild                                Run every step
  pgbuild --step build --step image      Run two steps
  pgbuild --release --copyDestination /srv/builds
  pgbuild --dry-run                      Print the commands instead of running them
  pgbuild config show                    Show the resolved project configuration`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(newLogger(app.stderr, rf.verbose))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, app, rf, bf)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&rf.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&rf.projectDir, "project-dir", "C", ".", "PolyGlot checkout to build")
	pf.StringVar(&rf.configFile, "config", "", "project config file (default is <project-dir>/pgbuild.cue)")

	bf.register(rootCmd.Flags())

	rootCmd.AddCommand(newConfigCommand(app, rf))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is the only place the process exits.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, false))
		os.Exit(int(types.ExitFailure))
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// carry their suggestions; verbose adds the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
