// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `pgbuild config` command tree.
func newConfigCommand(app *App, rf *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the project configuration",
		Long: `Inspect the project configuration.

The configuration is read from pgbuild.cue in the project directory (or the
file given with --config) and merged over the built-in PolyGlot defaults.
JAVA_HOME overrides the java_home key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadProjectConfig(cmd.Context(), app, rf)
			if err != nil {
				return fail(cmd, app, types.ExitFailure, err, rf.verbose)
			}
			showConfig(app.stdout, loaded)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the resolved configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadProjectConfig(cmd.Context(), app, rf)
			if err != nil {
				return fail(cmd, app, types.ExitFailure, err, rf.verbose)
			}
			data, err := config.MarshalTOML(loaded.Config)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(data)
			return err
		},
	})

	return cfgCmd
}

func loadProjectConfig(ctx context.Context, app *App, rf *rootFlags) (config.Loaded, error) {
	projectDir, err := filepath.Abs(rf.projectDir)
	if err != nil {
		return config.Loaded{}, issue.WrapWithOperation(err, "resolve project directory")
	}
	return app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rf.configFile, ProjectDir: projectDir})
}

func showConfig(w io.Writer, loaded config.Loaded) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	cfg := loaded.Config

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if loaded.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), loaded.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	javaHome := cfg.JavaHome
	if javaHome == "" {
		javaHome = SubtitleStyle.Render("(not set)")
	} else {
		javaHome = valueStyle.Render(javaHome)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("java_home"), javaHome)

	section := func(name string, rows ...[2]string) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(name))
		for _, r := range rows {
			fmt.Fprintf(w, "  %s: %s\n", r[0], valueStyle.Render(r[1]))
		}
	}

	section("product",
		[2]string{"name", cfg.Product.Name},
		[2]string{"module", cfg.Product.Module},
		[2]string{"main_class", cfg.Product.MainClass},
		[2]string{"jar_prefix", cfg.Product.JarPrefix},
		[2]string{"copyright", fmt.Sprintf("%d %s", cfg.Product.CopyrightSince, cfg.Product.CopyrightHolder)},
		[2]string{"add_modules", strings.Join(cfg.Product.AddModules, ",")},
	)
	section("paths",
		[2]string{"asset_dir", cfg.Paths.AssetDir},
		[2]string{"docs_dir", cfg.Paths.DocsDir},
		[2]string{"lexicon_dir", cfg.Paths.LexiconDir},
		[2]string{"image_dir", cfg.Paths.ImageDir},
		[2]string{"mods_dir", cfg.Paths.ModsDir},
		[2]string{"installer_dir", cfg.Paths.InstallerDir},
	)
	section("image",
		[2]string{"compress", fmt.Sprintf("%d", cfg.Image.Compress)},
		[2]string{"javafx_modules", strings.Join(cfg.Image.JavaFXModules, ",")},
	)
}
