// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "pgbuild"
	// ConfigFileName is the name of the project config file (without extension).
	ConfigFileName = "pgbuild"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// JavaHomeEnv is the environment variable consulted for the JDK root.
	JavaHomeEnv = "JAVA_HOME"

	// maxConfigFileSize bounds the project config file read into memory.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// loadWithOptions builds a fresh Viper instance, applies the PolyGlot
// defaults, merges the project config file (if any) and binds JAVA_HOME.
// It returns the resolved config and the path of the file that was read,
// or "" when only defaults were used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	if err := v.BindEnv("java_home", JavaHomeEnv); err != nil {
		return nil, "", fmt.Errorf("failed to bind %s: %w", JavaHomeEnv, err)
	}

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Run 'pgbuild config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		local := filepath.Join(opts.ProjectDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(local) {
			resolvedPath = local
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'pgbuild config dump' to see every key with its default").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, resolvedPath, nil
}

// setDefaults registers every leaf of defaults so that a partial project file
// only overrides the keys it names.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("java_home", d.JavaHome)

	v.SetDefault("product.name", d.Product.Name)
	v.SetDefault("product.description", d.Product.Description)
	v.SetDefault("product.copyright_holder", d.Product.CopyrightHolder)
	v.SetDefault("product.copyright_since", d.Product.CopyrightSince)
	v.SetDefault("product.module", d.Product.Module)
	v.SetDefault("product.main_class", d.Product.MainClass)
	v.SetDefault("product.jmod_main_class", d.Product.JmodMainClass)
	v.SetDefault("product.jar_prefix", d.Product.JarPrefix)
	v.SetDefault("product.launcher", d.Product.Launcher)
	v.SetDefault("product.add_modules", d.Product.AddModules)

	v.SetDefault("paths.asset_dir", d.Paths.AssetDir)
	v.SetDefault("paths.docs_dir", d.Paths.DocsDir)
	v.SetDefault("paths.lexicon_dir", d.Paths.LexiconDir)
	v.SetDefault("paths.license", d.Paths.License)
	v.SetDefault("paths.installer_dir", d.Paths.InstallerDir)
	v.SetDefault("paths.image_dir", d.Paths.ImageDir)
	v.SetDefault("paths.mods_dir", d.Paths.ModsDir)
	v.SetDefault("paths.injected_jars", d.Paths.InjectedJars)
	v.SetDefault("paths.target_dir", d.Paths.TargetDir)

	v.SetDefault("image.maven_repo", d.Image.MavenRepo)
	v.SetDefault("image.compress", d.Image.Compress)
	v.SetDefault("image.javafx_modules", d.Image.JavaFXModules)

	v.SetDefault("linux.package_name", d.Linux.PackageName)
	v.SetDefault("linux.app_category", d.Linux.AppCategory)
	v.SetDefault("linux.file_associations", d.Linux.FileAssociations)
	v.SetDefault("linux.icon", d.Linux.Icon)
	v.SetDefault("linux.rpm_license_type", d.Linux.RPMLicenseType)

	v.SetDefault("mac.package_name", d.Mac.PackageName)
	v.SetDefault("mac.file_associations", d.Mac.FileAssociations)
	v.SetDefault("mac.icon", d.Mac.Icon)
	v.SetDefault("mac.entitlements", d.Mac.Entitlements)
	v.SetDefault("mac.dmg_settings_file", d.Mac.DMGSettingsFile)
	v.SetDefault("mac.dmg.format", d.Mac.DMG.Format)
	v.SetDefault("mac.dmg.volume_icon", d.Mac.DMG.VolumeIcon)
	v.SetDefault("mac.dmg.background", d.Mac.DMG.Background)
	v.SetDefault("mac.dmg.window.x", d.Mac.DMG.Window.X)
	v.SetDefault("mac.dmg.window.y", d.Mac.DMG.Window.Y)
	v.SetDefault("mac.dmg.window.width", d.Mac.DMG.Window.Width)
	v.SetDefault("mac.dmg.window.height", d.Mac.DMG.Window.Height)
	v.SetDefault("mac.dmg.icon_size", d.Mac.DMG.IconSize)
	v.SetDefault("mac.dmg.app_position.x", d.Mac.DMG.AppPosition.X)
	v.SetDefault("mac.dmg.app_position.y", d.Mac.DMG.AppPosition.Y)
	v.SetDefault("mac.dmg.applications_position.x", d.Mac.DMG.ApplicationsPosition.X)
	v.SetDefault("mac.dmg.applications_position.y", d.Mac.DMG.ApplicationsPosition.Y)
	v.SetDefault("mac.dmg.license", d.Mac.DMG.License)

	v.SetDefault("windows.file_associations", d.Windows.FileAssociations)
	v.SetDefault("windows.icon", d.Windows.Icon)
	v.SetDefault("windows.shortcut", d.Windows.Shortcut)
	v.SetDefault("windows.menu", d.Windows.Menu)
	v.SetDefault("windows.dir_chooser", d.Windows.DirChooser)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	// MergeConfigMap keeps defaults for keys the file leaves out; the env
	// binding still wins over the file for java_home.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// formatCUEError flattens CUE errors into "<file>: <path>: <message>" lines.
func formatCUEError(err error, filePath string) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		path := strings.Join(cueerrors.Path(e), ".")
		msg := e.Error()
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		if path != "" {
			lines = append(lines, path+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}
