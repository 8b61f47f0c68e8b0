// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/runtime"
)

// Dmgbuild is the disk image builder (pip install dmgbuild).
const Dmgbuild = "dmgbuild"

var dmgSettingsTemplate = template.Must(template.New("dmg_settings.py").
	Funcs(template.FuncMap{"py": pyString}).
	Parse(`# dmgbuild settings generated by pgbuild from the mac.dmg configuration.

format = {{ py .DMG.Format }}
files = [{{ py .App }}]
symlinks = {'Applications': '/Applications'}
{{- if .DMG.VolumeIcon }}
icon = {{ py .DMG.VolumeIcon }}
{{- end }}
icon_locations = {
    {{ py .App }}: ({{ .DMG.AppPosition.X }}, {{ .DMG.AppPosition.Y }}),
    'Applications': ({{ .DMG.ApplicationsPosition.X }}, {{ .DMG.ApplicationsPosition.Y }}),
}
{{- if .DMG.Background }}
background = {{ py .DMG.Background }}
{{- end }}
window_rect = (({{ .DMG.Window.X }}, {{ .DMG.Window.Y }}), ({{ .DMG.Window.Width }}, {{ .DMG.Window.Height }}))
icon_size = {{ .DMG.IconSize }}
{{- if .DMG.License }}
license = {
    'default-language': 'en_US',
    'licenses': {'en_US': {{ py .DMG.License }}},
}
{{- end }}
`))

// DMGName returns the disk image file name, e.g. PolyGlot-3.6.1.dmg.
func DMGName(name, version string) string {
	return name + "-" + version + ".dmg"
}

// RenderDMGSettings produces a dmgbuild settings file for app.
func RenderDMGSettings(app string, dmg config.DMGSettings) (string, error) {
	var sb strings.Builder
	err := dmgSettingsTemplate.Execute(&sb, struct {
		App string
		DMG config.DMGSettings
	}{App: app, DMG: dmg})
	if err != nil {
		return "", fmt.Errorf("failed to render dmg settings: %w", err)
	}
	return sb.String(), nil
}

// dmgSettingsFile returns the settings path to hand to dmgbuild. A file
// shipped with the project wins; otherwise one is generated into a temp
// file and cleanup removes it.
func dmgSettingsFile(s Settings, app string) (path string, cleanup func(), err error) {
	mc := s.Config.Mac
	if mc.DMGSettingsFile != "" {
		shipped := filepath.Join(s.ProjectDir, mc.DMGSettingsFile)
		if _, statErr := os.Stat(shipped); statErr == nil {
			return mc.DMGSettingsFile, func() {}, nil
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("failed to read dmg settings: %w", statErr)
		}
	}

	content, err := RenderDMGSettings(app, mc.DMG)
	if err != nil {
		return "", nil, err
	}
	f, err := os.CreateTemp("", "pgbuild-dmg-*.py")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create dmg settings: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write dmg settings: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write dmg settings: %w", err)
	}
	name := f.Name()
	return name, func() { _ = os.Remove(name) }, nil
}

// DmgbuildCommand builds the disk image named dmg with volume name volume.
func DmgbuildCommand(settings, volume, dmg string) runtime.Command {
	return runtime.NewCommand(Dmgbuild, "-s", settings, volume, dmg)
}

// pyString quotes s as a Python single-quoted string literal.
func pyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}
