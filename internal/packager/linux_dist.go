// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/issue"
)

var linuxStrategy = strategy{
	prepare: func(s Settings) error {
		return recreateDir(filepath.Join(s.ProjectDir, s.Config.Paths.InstallerDir))
	},
	appVersion: func(s Settings) string { return s.BuildNumber },
	assets: func(cfg *config.Config) (string, string) {
		return cfg.Linux.FileAssociations, cfg.Linux.Icon
	},
	leaves: func(p *Packager, s Settings) []string {
		lc := s.Config.Linux
		args := []string{
			"--linux-package-name", lc.PackageName,
			"--linux-app-category", lc.AppCategory,
			"--license-file", s.Config.Paths.License,
		}
		// jpackage builds an rpm instead of a deb when rpm is installed.
		if _, err := p.runner.LookPath("rpm"); err == nil && lc.RPMLicenseType != "" {
			slog.Info("detected rpm")
			args = append(args, "--linux-rpm-license-type", lc.RPMLicenseType)
		}
		return args
	},
	finish: func(_ context.Context, _ *Packager, s Settings, jpackageOK bool, res *Result) {
		// A package left over from an earlier run must not stand in for
		// the one jpackage failed to build.
		if !jpackageOK || s.DryRun {
			return
		}
		found, err := FindLinuxPackage(s.ProjectDir, s.Config.Linux.PackageName, s.BuildNumber)
		if err != nil {
			res.report(err)
			return
		}
		slog.Info("generated", "path", found)
		res.Artifact = found
	},
}

// FindLinuxPackage scans dir for the package jpackage produced. Its name
// varies by architecture and package type, so the first regular file that
// starts with packageName and contains buildNumber is taken.
func FindLinuxPackage(dir, packageName, buildNumber string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to scan for jpackage output: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, packageName) && strings.Contains(name, buildNumber) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", missingOutput(filepath.Join(dir, packageName+"*"+buildNumber+"*"))
}

// missingOutput reports an installer that jpackage did not produce.
func missingOutput(pattern string) error {
	return issue.NewErrorContext().
		WithOperation("locate jpackage output").
		WithResource(pattern).
		WithSuggestion("Check the jpackage output above for errors").
		WithIssue(issue.InstallerMissingId).
		Wrap(os.ErrNotExist).
		BuildError()
}

// recreateDir removes dir and creates it again, empty.
func recreateDir(dir string) error {
	if err := removeDir(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

func removeDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}
