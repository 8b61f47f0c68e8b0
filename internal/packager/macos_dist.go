// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/internal/runtime"
)

// duplicateJLI is the second libjli.dylib jpackage bundles inside the
// runtime; notarization rejects it.
var duplicateJLI = filepath.Join("Contents", "runtime", "Contents", "MacOS", "libjli.dylib")

var macStrategy = strategy{
	appVersion: func(s Settings) string { return s.Version },
	assets: func(cfg *config.Config) (string, string) {
		return cfg.Mac.FileAssociations, cfg.Mac.Icon
	},
	leaves: func(_ *Packager, s Settings) []string {
		return []string{
			"--type", "app-image",
			"--mac-package-name", s.Config.Mac.PackageName,
		}
	},
	finish: finishMac,
}

// AppBundle returns the app image directory name, e.g. PolyGlot.app.
func AppBundle(name string) string {
	return name + ".app"
}

func finishMac(ctx context.Context, p *Packager, s Settings, jpackageOK bool, res *Result) {
	app := AppBundle(s.Config.Product.Name)
	appPath := filepath.Join(s.ProjectDir, app)
	if !s.DryRun {
		defer func() {
			if err := os.RemoveAll(appPath); err != nil {
				slog.Warn("failed to remove app image", "path", appPath, "error", err)
			}
		}()
	}

	if !jpackageOK {
		return
	}
	if !s.DryRun {
		if _, err := os.Stat(appPath); err != nil {
			res.report(missingOutput(appPath))
			return
		}
		if err := os.Remove(filepath.Join(appPath, duplicateJLI)); err == nil {
			slog.Debug("removed duplicate libjli.dylib")
		}
	}

	entitlements := s.Config.Mac.Entitlements
	plan := PlanSigning(s.SignIdentity, s.DistribIdentity)
	for _, w := range plan.Warnings {
		slog.Warn(w)
	}
	if plan.Unsigned() {
		res.Problems = append(res.Problems, issue.NewErrorContext().
			WithOperation("code sign app image").
			WithResource(app).
			WithSuggestion("Pass --mac_sign_identity or --mac_distrib_cert").
			WithIssue(issue.SigningSkippedId).
			Wrap(ErrUnsigned).
			BuildError())
	}
	for _, identity := range plan.App {
		slog.Info("code signing app image", "identity", identity)
		p.run(ctx, "codesign", CodesignApp(entitlements, identity, app).In(s.ProjectDir), res)
	}

	if _, err := p.runner.LookPath(Dmgbuild); err != nil {
		res.report(issue.NewErrorContext().
			WithOperation("create disk image").
			WithSuggestion("Run 'pip install dmgbuild' to install it").
			WithIssue(issue.DmgbuildMissingId).
			Wrap(err).
			BuildError())
		return
	}

	settings, cleanup, err := dmgSettingsFile(s, app)
	if err != nil {
		res.report(err)
		return
	}
	defer cleanup()

	dmg := DMGName(s.Config.Product.Name, s.Version)
	slog.Info("creating distribution package", "path", dmg)
	if !p.run(ctx, Dmgbuild, DmgbuildCommand(settings, s.Config.Product.Name, dmg).In(s.ProjectDir), res) {
		return
	}

	if plan.DMG != "" {
		slog.Info("code signing dmg installer", "identity", plan.DMG)
		p.run(ctx, "codesign", CodesignDMG(entitlements, plan.DMG, dmg).In(s.ProjectDir), res)
	}
	res.Artifact = filepath.Join(s.ProjectDir, dmg)
}

// run executes cmd, reporting a failure into res. It returns whether the
// command succeeded.
func (p *Packager) run(ctx context.Context, tool string, cmd runtime.Command, res *Result) bool {
	r := p.runner.Run(ctx, cmd)
	if r.Success() {
		return true
	}
	res.report(toolFailure(tool, cmd, r))
	return false
}
