// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/darisadesigns/pgbuild/internal/issue"

	cp "github.com/otiai10/copy"
)

const (
	// ReleaseDir receives release installers.
	ReleaseDir = "Release"
	// BetaDir receives beta installers.
	BetaDir = "Beta"
	// BetaPrefix is prepended to beta installer names.
	BetaPrefix = "_BETA_"
)

// ErrInstallerMissing is returned when the built installer is not on disk.
var ErrInstallerMissing = errors.New("built installer missing")

// Destination returns where artifact lands under dest.
func Destination(dest, artifact string, release bool) string {
	name := filepath.Base(artifact)
	if release {
		return filepath.Join(dest, ReleaseDir, name)
	}
	return filepath.Join(dest, BetaDir, BetaPrefix+name)
}

// CopyInstaller copies artifact into dest, then deletes the local artifact
// and clears the sentinel. When artifact is missing nothing is touched and
// the sentinel stays in place.
func CopyInstaller(dest, artifact string, release bool, sentinel Sentinel) (string, error) {
	info, err := os.Stat(artifact)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", issue.NewErrorContext().
				WithOperation("copy installer").
				WithResource(artifact).
				WithSuggestion("Check the packager output above for errors").
				WithIssue(issue.InstallerMissingId).
				Wrap(ErrInstallerMissing).
				BuildError()
		}
		return "", fmt.Errorf("failed to stat installer: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("installer %s is a directory", artifact)
	}

	target := Destination(dest, artifact, release)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	slog.Info("copying installer", "path", target)
	if err := cp.Copy(artifact, target, cp.Options{Sync: true}); err != nil {
		return "", fmt.Errorf("failed to copy installer to %s: %w", target, err)
	}

	if err := sentinel.Clear(); err != nil {
		return target, err
	}
	if err := os.Remove(artifact); err != nil {
		return target, fmt.Errorf("failed to remove local installer: %w", err)
	}
	return target, nil
}
