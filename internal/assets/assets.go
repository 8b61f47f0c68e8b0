// SPDX-License-Identifier: MPL-2.0

package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/darisadesigns/pgbuild/internal/clock"
	"github.com/darisadesigns/pgbuild/internal/config"
)

const (
	// ReadmeArchive is the documentation bundle inside the asset directory.
	ReadmeArchive = "readme.zip"
	// LexiconArchive is the example lexicon bundle inside the asset directory.
	LexiconArchive = "exlex.zip"
	// BuildDateFile holds the build timestamp shown in the about dialog.
	BuildDateFile = "buildDate"
	// VersionFile holds the version resource text.
	VersionFile = "version"

	// BuildDateLayout is the build timestamp format, minute precision.
	BuildDateLayout = "2006-01-02 15:04"
)

// Injector writes generated resources into a project checkout.
type Injector struct {
	projectDir string
	paths      config.PathsConfig
	clock      clock.Clock
}

// NewInjector returns an Injector for the project at projectDir.
func NewInjector(projectDir string, paths config.PathsConfig, c clock.Clock) *Injector {
	return &Injector{projectDir: projectDir, paths: paths, clock: clock.OrReal(c)}
}

// AssetPath returns the absolute location of name inside the asset directory.
func (i *Injector) AssetPath(name string) string {
	return filepath.Join(i.projectDir, i.paths.AssetDir, name)
}

// InjectDocs rebuilds the documentation and example lexicon archives.
// Existing archives are removed first so stale entries never survive.
func (i *Injector) InjectDocs() error {
	bundles := []struct {
		src, archive string
	}{
		{src: i.paths.DocsDir, archive: ReadmeArchive},
		{src: i.paths.LexiconDir, archive: LexiconArchive},
	}

	for _, b := range bundles {
		dest := i.AssetPath(b.archive)
		if err := removeIfExists(dest); err != nil {
			return err
		}
		n, err := ZipDir(filepath.Join(i.projectDir, b.src), dest)
		if err != nil {
			return err
		}
		slog.Info("archived", "path", dest, "files", n)
	}
	return nil
}

// InjectBuildDate writes the current local time to the build date resource
// and returns the text written.
func (i *Injector) InjectBuildDate() (string, error) {
	stamp := i.clock.Now().Format(BuildDateLayout)
	if err := i.write(BuildDateFile, stamp); err != nil {
		return "", err
	}
	return stamp, nil
}

// WriteVersion replaces the version resource with text.
func (i *Injector) WriteVersion(text string) error {
	if err := removeIfExists(i.AssetPath(VersionFile)); err != nil {
		return err
	}
	return i.write(VersionFile, text)
}

func (i *Injector) write(name, content string) error {
	path := i.AssetPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
