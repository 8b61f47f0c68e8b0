// SPDX-License-Identifier: MPL-2.0

package jdk

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/darisadesigns/pgbuild/pkg/platform"
)

// Maven coordinates the runtime image is linked against.
const (
	JacksonGroup = "com.fasterxml.jackson.core"
	JavaFXGroup  = "org.openjfx"
	JsoupGroup   = "org.jsoup"
	CommonsGroup = "org.apache.commons"
	Lang3        = "commons-lang3"

	javaFXDir      = "openjfx"
	javaFXIntelDir = "openjfx_intel"
)

var jacksonArtifacts = []string{"jackson-core", "jackson-databind", "jackson-annotations"}

type (
	// VersionSource answers dependency version lookups, usually a manifest.
	VersionSource interface {
		DependencyVersion(groupID string) string
		DependencyVersionOf(groupID, artifactID string) string
	}

	// DependencyVersions are the versions resolved from the manifest.
	DependencyVersions struct {
		Jackson string
		JavaFX  string
		Jsoup   string
		Lang3   string
	}

	// ModulePathInput describes where the jlink module path entries live.
	ModulePathInput struct {
		// ProjectDir anchors InjectedJars and ModsDir.
		ProjectDir   string
		InjectedJars string
		ModsDir      string
		// MavenRepo is the local repository root.
		MavenRepo string
		// JavaFXModules are the artifact names under the JavaFX group.
		JavaFXModules []string
		// IntelJavaFX selects the Intel JavaFX tree on macOS.
		IntelJavaFX bool
		Versions    DependencyVersions
	}
)

// ResolveVersions looks up every dependency version the module path needs.
// Missing entries stay empty; the lookup itself logs them.
func ResolveVersions(src VersionSource) DependencyVersions {
	v := DependencyVersions{
		Jackson: src.DependencyVersion(JacksonGroup),
		JavaFX:  src.DependencyVersion(JavaFXGroup),
		Jsoup:   src.DependencyVersion(JsoupGroup),
		Lang3:   src.DependencyVersionOf(CommonsGroup, Lang3),
	}
	slog.Debug("dependency versions", "jackson", v.Jackson, "javafx", v.JavaFX, "jsoup", v.Jsoup, "commons-lang3", v.Lang3)
	return v
}

// JavaFXRoot returns the JavaFX artifact tree inside the Maven repository.
func (in ModulePathInput) JavaFXRoot() string {
	dir := javaFXDir
	if in.IntelJavaFX {
		dir = javaFXIntelDir
	}
	return filepath.Join(in.MavenRepo, "org", dir)
}

// Entries returns the module path directories in jlink order. Maven artifact
// directories carry a trailing separator.
func (in ModulePathInput) Entries() []string {
	repo := in.MavenRepo
	jfx := in.JavaFXRoot()
	sep := string(filepath.Separator)

	entries := []string{
		filepath.Join(in.ProjectDir, in.InjectedJars),
		filepath.Join(in.ProjectDir, in.ModsDir),
	}
	for _, a := range jacksonArtifacts {
		entries = append(entries, filepath.Join(repo, groupPath(JacksonGroup), a, in.Versions.Jackson)+sep)
	}
	entries = append(entries,
		filepath.Join(repo, groupPath(JsoupGroup), "jsoup", in.Versions.Jsoup)+sep,
		filepath.Join(repo, groupPath(CommonsGroup), Lang3, in.Versions.Lang3)+sep,
	)
	for _, m := range in.JavaFXModules {
		entries = append(entries, filepath.Join(jfx, m, in.Versions.JavaFX)+sep)
	}
	return append(entries, filepath.Join(jfx, "jmods"))
}

// Join renders entries with the target OS's path list separator.
func Join(target platform.OS, entries []string) string {
	return strings.Join(entries, target.PathListSeparator())
}

func groupPath(group string) string {
	return filepath.Join(strings.Split(group, ".")...)
}
