// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"os"
	"path/filepath"

	"github.com/darisadesigns/pgbuild/internal/config"
)

var windowsStrategy = strategy{
	prepare: func(s Settings) error {
		return removeDir(filepath.Join(s.ProjectDir, s.Config.Paths.InstallerDir))
	},
	appVersion: func(s Settings) string { return s.BuildNumber },
	assets: func(cfg *config.Config) (string, string) {
		return cfg.Windows.FileAssociations, cfg.Windows.Icon
	},
	leaves: func(p *Packager, s Settings) []string {
		wc := s.Config.Windows
		var args []string
		if wc.Shortcut {
			args = append(args, "--win-shortcut")
		}
		if wc.Menu {
			args = append(args, "--win-menu")
		}
		if wc.DirChooser {
			args = append(args, "--win-dir-chooser")
		}
		// A fresh upgrade UUID per build keeps versioned installers from
		// colliding in Windows' installer registry.
		return append(args,
			"--license-file", s.Config.Paths.License,
			"--win-upgrade-uuid", p.newUUID(),
		)
	},
	finish: func(_ context.Context, _ *Packager, s Settings, jpackageOK bool, res *Result) {
		if !jpackageOK {
			return
		}
		artifact := filepath.Join(s.ProjectDir, WindowsInstallerName(s.Config.Product.Name, s.BuildNumber))
		if !s.DryRun {
			if _, err := os.Stat(artifact); err != nil {
				res.report(missingOutput(artifact))
				return
			}
		}
		res.Artifact = artifact
	},
}

// WindowsInstallerName returns the exe jpackage writes, e.g. PolyGlot-3.6.26435.exe.
func WindowsInstallerName(name, buildNumber string) string {
	return name + "-" + buildNumber + ".exe"
}
