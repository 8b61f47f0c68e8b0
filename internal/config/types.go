// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is the project packaging configuration.
	Config struct {
		// JavaHome is the JDK root. JAVA_HOME overrides the file value.
		JavaHome string        `json:"java_home" mapstructure:"java_home" toml:"java_home,omitempty"`
		Product  ProductConfig `json:"product" mapstructure:"product" toml:"product"`
		Paths    PathsConfig   `json:"paths" mapstructure:"paths" toml:"paths"`
		Image    ImageConfig   `json:"image" mapstructure:"image" toml:"image"`
		Linux    LinuxConfig   `json:"linux" mapstructure:"linux" toml:"linux"`
		Mac      MacConfig     `json:"mac" mapstructure:"mac" toml:"mac"`
		Windows  WindowsConfig `json:"windows" mapstructure:"windows" toml:"windows"`
	}

	// ProductConfig describes the application being packaged.
	ProductConfig struct {
		Name            string `json:"name" mapstructure:"name" toml:"name"`
		Description     string `json:"description" mapstructure:"description" toml:"description"`
		CopyrightHolder string `json:"copyright_holder" mapstructure:"copyright_holder" toml:"copyright_holder"`
		CopyrightSince  int    `json:"copyright_since" mapstructure:"copyright_since" toml:"copyright_since"`
		// Module is the Java module name handed to jlink and jpackage.
		Module string `json:"module" mapstructure:"module" toml:"module"`
		// MainClass is the launcher class inside Module.
		MainClass string `json:"main_class" mapstructure:"main_class" toml:"main_class"`
		// JmodMainClass is recorded in the jmod created from the application jar.
		JmodMainClass string   `json:"jmod_main_class" mapstructure:"jmod_main_class" toml:"jmod_main_class"`
		JarPrefix     string   `json:"jar_prefix" mapstructure:"jar_prefix" toml:"jar_prefix"`
		Launcher      string   `json:"launcher" mapstructure:"launcher" toml:"launcher"`
		AddModules    []string `json:"add_modules" mapstructure:"add_modules" toml:"add_modules"`
	}

	// PathsConfig holds locations relative to the project directory.
	PathsConfig struct {
		AssetDir     string `json:"asset_dir" mapstructure:"asset_dir" toml:"asset_dir"`
		DocsDir      string `json:"docs_dir" mapstructure:"docs_dir" toml:"docs_dir"`
		LexiconDir   string `json:"lexicon_dir" mapstructure:"lexicon_dir" toml:"lexicon_dir"`
		License      string `json:"license" mapstructure:"license" toml:"license"`
		InstallerDir string `json:"installer_dir" mapstructure:"installer_dir" toml:"installer_dir"`
		ImageDir     string `json:"image_dir" mapstructure:"image_dir" toml:"image_dir"`
		ModsDir      string `json:"mods_dir" mapstructure:"mods_dir" toml:"mods_dir"`
		InjectedJars string `json:"injected_jars" mapstructure:"injected_jars" toml:"injected_jars"`
		TargetDir    string `json:"target_dir" mapstructure:"target_dir" toml:"target_dir"`
	}

	// ImageConfig controls runtime image assembly.
	ImageConfig struct {
		// MavenRepo overrides ~/.m2/repository.
		MavenRepo     string   `json:"maven_repo" mapstructure:"maven_repo" toml:"maven_repo,omitempty"`
		Compress      int      `json:"compress" mapstructure:"compress" toml:"compress"`
		JavaFXModules []string `json:"javafx_modules" mapstructure:"javafx_modules" toml:"javafx_modules"`
	}

	// LinuxConfig holds jpackage settings for deb/rpm installers.
	LinuxConfig struct {
		PackageName      string `json:"package_name" mapstructure:"package_name" toml:"package_name"`
		AppCategory      string `json:"app_category" mapstructure:"app_category" toml:"app_category"`
		FileAssociations string `json:"file_associations" mapstructure:"file_associations" toml:"file_associations"`
		Icon             string `json:"icon" mapstructure:"icon" toml:"icon"`
		RPMLicenseType   string `json:"rpm_license_type" mapstructure:"rpm_license_type" toml:"rpm_license_type"`
	}

	// MacConfig holds app-image, signing and disk image settings.
	MacConfig struct {
		PackageName      string      `json:"package_name" mapstructure:"package_name" toml:"package_name"`
		FileAssociations string      `json:"file_associations" mapstructure:"file_associations" toml:"file_associations"`
		Icon             string      `json:"icon" mapstructure:"icon" toml:"icon"`
		Entitlements     string      `json:"entitlements" mapstructure:"entitlements" toml:"entitlements"`
		DMGSettingsFile  string      `json:"dmg_settings_file" mapstructure:"dmg_settings_file" toml:"dmg_settings_file"`
		DMG              DMGSettings `json:"dmg" mapstructure:"dmg" toml:"dmg"`
	}

	// DMGSettings is the declarative layout used to generate a dmgbuild
	// settings file when the project does not ship one.
	DMGSettings struct {
		Format               string   `json:"format" mapstructure:"format" toml:"format"`
		VolumeIcon           string   `json:"volume_icon" mapstructure:"volume_icon" toml:"volume_icon"`
		Background           string   `json:"background" mapstructure:"background" toml:"background"`
		Window               Window   `json:"window" mapstructure:"window" toml:"window"`
		IconSize             int      `json:"icon_size" mapstructure:"icon_size" toml:"icon_size"`
		AppPosition          Position `json:"app_position" mapstructure:"app_position" toml:"app_position"`
		ApplicationsPosition Position `json:"applications_position" mapstructure:"applications_position" toml:"applications_position"`
		License              string   `json:"license" mapstructure:"license" toml:"license"`
	}

	// Window is the Finder window rectangle of a mounted disk image.
	Window struct {
		X      int `json:"x" mapstructure:"x" toml:"x"`
		Y      int `json:"y" mapstructure:"y" toml:"y"`
		Width  int `json:"width" mapstructure:"width" toml:"width"`
		Height int `json:"height" mapstructure:"height" toml:"height"`
	}

	// Position is an icon location inside the disk image window.
	Position struct {
		X int `json:"x" mapstructure:"x" toml:"x"`
		Y int `json:"y" mapstructure:"y" toml:"y"`
	}

	// WindowsConfig holds jpackage settings for the exe installer.
	WindowsConfig struct {
		FileAssociations string `json:"file_associations" mapstructure:"file_associations" toml:"file_associations"`
		Icon             string `json:"icon" mapstructure:"icon" toml:"icon"`
		Shortcut         bool   `json:"shortcut" mapstructure:"shortcut" toml:"shortcut"`
		Menu             bool   `json:"menu" mapstructure:"menu" toml:"menu"`
		DirChooser       bool   `json:"dir_chooser" mapstructure:"dir_chooser" toml:"dir_chooser"`
	}
)

// DefaultConfig returns the PolyGlot packaging configuration.
func DefaultConfig() *Config {
	return &Config{
		Product: ProductConfig{
			Name:            "PolyGlot",
			Description:     "PolyGlot is a spoken language construction toolkit.",
			CopyrightHolder: "Draque Thompson",
			CopyrightSince:  2014,
			Module:          "org.darisadesigns.polyglotlina.polyglot",
			MainClass:       "org.darisadesigns.polyglotlina.PolyGlot",
			JmodMainClass:   "org.darisadesigns.polyglotlina.Desktop.PolyGlot",
			JarPrefix:       "PolyGlotLinA",
			Launcher:        "PolyGlot",
			AddModules:      []string{"org.darisadesigns.polyglotlina.polyglot", "jdk.crypto.ec"},
		},
		Paths: PathsConfig{
			AssetDir:     "assets/assets/org/DarisaDesigns",
			DocsDir:      "docs",
			LexiconDir:   "packaging_files/example_lexicons",
			License:      "LICENSE.TXT",
			InstallerDir: "installer",
			ImageDir:     "build/image",
			ModsDir:      "target/mods",
			InjectedJars: "module_injected_jars",
			TargetDir:    "target",
		},
		Image: ImageConfig{
			Compress:      2,
			JavaFXModules: []string{"javafx-graphics", "javafx-base", "javafx-media", "javafx-swing", "javafx-controls"},
		},
		Linux: LinuxConfig{
			PackageName:      "polyglot-linear-a",
			AppCategory:      "Education",
			FileAssociations: "packaging_files/linux/file_types_linux.prop",
			Icon:             "packaging_files/PolyGlot0.png",
			RPMLicenseType:   "MIT",
		},
		Mac: MacConfig{
			PackageName:      "PolyGlot",
			FileAssociations: "packaging_files/mac/file_types_mac.prop",
			Icon:             "packaging_files/mac/PolyGlot.icns",
			Entitlements:     "packaging_files/mac/entitlements.plist",
			DMGSettingsFile:  "packaging_files/mac/dmg_settings.py",
			DMG: DMGSettings{
				Format:               "UDBZ",
				VolumeIcon:           "packaging_files/mac/PolyGlot.icns",
				Background:           "builtin-arrow",
				Window:               Window{X: 100, Y: 100, Width: 640, Height: 280},
				IconSize:             128,
				AppPosition:          Position{X: 140, Y: 120},
				ApplicationsPosition: Position{X: 500, Y: 120},
				License:              "LICENSE.TXT",
			},
		},
		Windows: WindowsConfig{
			FileAssociations: "packaging_files/win/file_types_win.prop",
			Icon:             "packaging_files/win/PolyGlot0.ico",
			Shortcut:         true,
			Menu:             true,
			DirChooser:       true,
		},
	}
}
