// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/issue"
)

// FileName is the Maven project manifest name.
const FileName = "pom.xml"

// ErrNoVersion is returned when the manifest has no <version> element.
var ErrNoVersion = errors.New("manifest has no <version> element")

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

type (
	// Dependency is one <dependency> entry, in document order.
	Dependency struct {
		GroupID    string
		ArtifactID string
		Version    string
	}

	// Manifest is the parsed subset of a pom.xml.
	Manifest struct {
		// firstVersion is the text of the first <version> element anywhere.
		firstVersion string
		// projectVersion is <project><version>, used for ${project.version}.
		projectVersion string
		properties     map[string]string
		dependencies   []Dependency
	}
)

// Load reads pom.xml from the project directory.
func Load(projectDir string) (*Manifest, error) {
	path := filepath.Join(projectDir, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read project manifest").
			WithResource(path).
			WithSuggestion("Run pgbuild from the PolyGlot checkout, or pass -C <dir>").
			WithIssue(issue.ManifestUnreadableId).
			Wrap(err).
			BuildError()
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse project manifest").
			WithResource(path).
			WithIssue(issue.ManifestUnreadableId).
			Wrap(err).
			BuildError()
	}
	return m, nil
}

// Parse reads a pom.xml document. Namespaces are ignored; elements are
// matched by local name.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{properties: make(map[string]string)}
	dec := xml.NewDecoder(r)

	var (
		stack     []string
		text      strings.Builder
		current   *Dependency
		haveFirst bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			text.Reset()
			if t.Name.Local == "dependency" {
				current = &Dependency{}
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			text.Reset()
			m.collect(stack, value, current, &haveFirst)
			if t.Name.Local == "dependency" && current != nil {
				m.dependencies = append(m.dependencies, *current)
				current = nil
			}
			stack = stack[:len(stack)-1]
		}
	}

	return m, nil
}

// collect records the element at the top of stack.
func (m *Manifest) collect(stack []string, value string, dep *Dependency, haveFirst *bool) {
	depth := len(stack)
	name := stack[depth-1]
	parent := ""
	if depth > 1 {
		parent = stack[depth-2]
	}

	if name == "version" && !*haveFirst {
		m.firstVersion = value
		*haveFirst = true
	}

	if name == "version" && depth == 2 && stack[0] == "project" {
		m.projectVersion = value
	}
	if parent == "properties" && depth == 3 && stack[0] == "project" {
		m.properties[name] = value
	}
	if dep != nil && parent == "dependency" {
		switch name {
		case "groupId":
			dep.GroupID = value
		case "artifactId":
			dep.ArtifactID = value
		case "version":
			dep.Version = value
		}
	}
}

// Version returns the text of the first <version> element in document order.
func (m *Manifest) Version() (string, error) {
	if m.firstVersion == "" {
		return "", ErrNoVersion
	}
	return m.resolve(m.firstVersion), nil
}

// DependencyVersion returns the version of the first dependency whose groupId
// is groupID, or "" when there is none.
func (m *Manifest) DependencyVersion(groupID string) string {
	return m.find(func(d Dependency) bool { return d.GroupID == groupID }, groupID)
}

// DependencyVersionOf returns the version of the first dependency matching
// both groupID and artifactID, or "" when there is none.
func (m *Manifest) DependencyVersionOf(groupID, artifactID string) string {
	return m.find(func(d Dependency) bool {
		return d.GroupID == groupID && d.ArtifactID == artifactID
	}, groupID+":"+artifactID)
}

func (m *Manifest) find(match func(Dependency) bool, label string) string {
	for _, d := range m.dependencies {
		if match(d) {
			return m.resolve(d.Version)
		}
	}
	slog.Warn("dependency not found in manifest", "dependency", label)
	return ""
}

// resolve expands ${name} placeholders from <properties> and
// ${project.version}. Unknown placeholders are left as written.
func (m *Manifest) resolve(s string) string {
	for range 8 {
		if !strings.Contains(s, "${") {
			return s
		}
		next := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
			key := match[2 : len(match)-1]
			if key == "project.version" && m.projectVersion != "" {
				return m.projectVersion
			}
			if v, ok := m.properties[key]; ok {
				return v
			}
			return match
		})
		if next == s {
			return s
		}
		s = next
	}
	return s
}
