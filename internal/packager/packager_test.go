// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/internal/runtime"
	"github.com/darisadesigns/pgbuild/internal/testutil"
	"github.com/darisadesigns/pgbuild/pkg/platform"
	"github.com/darisadesigns/pgbuild/pkg/types"
)

const fixedUUID = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

func newSettings(t *testing.T) Settings {
	t.Helper()
	return Settings{
		ProjectDir:  t.TempDir(),
		JavaHome:    filepath.Join("opt", "jdk"),
		Version:     "3.6.1",
		BuildNumber: "3.6.1",
		Release:     true,
		Year:        2026,
		Config:      config.DefaultConfig(),
	}
}

func newPackager(r runtime.Runner) *Packager {
	p := New(r)
	p.newUUID = func() string { return fixedUUID }
	return p
}

func hasProblem(res Result, id issue.Id) bool {
	for _, p := range res.Problems {
		var ae *issue.ActionableError
		if errors.As(p, &ae) && ae.IssueID == id {
			return true
		}
	}
	return false
}

func TestCopyright(t *testing.T) {
	t.Parallel()

	if got := Copyright(2014, 2026, "Draque Thompson"); got != "2014-2026 Draque Thompson" {
		t.Errorf("Copyright() = %q", got)
	}
}

func TestPackage_Linux(t *testing.T) {
	t.Parallel()

	s := newSettings(t)
	testutil.MustWriteFile(t, filepath.Join(s.ProjectDir, "installer", "stale.deb"), "old")

	r := testutil.NewRecordingRunner()
	r.Available = map[string]bool{}
	r.OnRun = func(cmd runtime.Command) {
		testutil.MustWriteFile(t, filepath.Join(cmd.Dir, "polyglot-linear-a_3.6.1-1_amd64.deb"), "deb")
	}

	res, err := newPackager(r).Package(context.Background(), platform.OSLinux, s)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if len(res.Problems) != 0 {
		t.Errorf("unexpected problems: %v", res.Problems)
	}
	if want := filepath.Join(s.ProjectDir, "polyglot-linear-a_3.6.1-1_amd64.deb"); res.Artifact != want {
		t.Errorf("Artifact = %q, want %q", res.Artifact, want)
	}
	if testutil.FileExists(t, filepath.Join(s.ProjectDir, "installer", "stale.deb")) {
		t.Error("installer directory should have been recreated empty")
	}
	if !testutil.FileExists(t, filepath.Join(s.ProjectDir, "installer")) {
		t.Error("installer directory should exist")
	}

	cmd, ok := r.Find("jpackage")
	if !ok {
		t.Fatal("jpackage was not run")
	}
	if cmd.Name != filepath.Join("opt", "jdk", "bin", "jpackage") || cmd.Dir != s.ProjectDir {
		t.Errorf("jpackage command = %q in %q", cmd.Name, cmd.Dir)
	}
	want := []string{
		"--runtime-image", "build/image",
		"--name", "PolyGlot",
		"--module", "org.darisadesigns.polyglotlina.polyglot/org.darisadesigns.polyglotlina.PolyGlot",
		"--copyright", "2014-2026 Draque Thompson",
		"--description", "PolyGlot is a spoken language construction toolkit.",
		"--file-associations", "packaging_files/linux/file_types_linux.prop",
		"--icon", "packaging_files/PolyGlot0.png",
		"--app-version", "3.6.1",
		"--linux-package-name", "polyglot-linear-a",
		"--linux-app-category", "Education",
		"--license-file", "LICENSE.TXT",
	}
	if !slices.Equal(cmd.Args, want) {
		t.Errorf("jpackage args mismatch\n got: %q\nwant: %q", cmd.Args, want)
	}
}

func TestPackage_LinuxRPM(t *testing.T) {
	t.Parallel()

	s := newSettings(t)
	r := testutil.NewRecordingRunner()
	r.Available = map[string]bool{"rpm": true}

	res, err := newPackager(r).Package(context.Background(), platform.OSLinux, s)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	cmd, _ := r.Find("jpackage")
	if got := cmd.ArgAfter("--linux-rpm-license-type"); got != "MIT" {
		t.Errorf("--linux-rpm-license-type = %q, want MIT", got)
	}
	// Nothing was produced, so the missing package is reported but not fatal.
	if res.Artifact != "" || !hasProblem(res, issue.InstallerMissingId) {
		t.Errorf("Result = %+v, want a missing-installer problem", res)
	}
}

func TestPackage_LinuxBetaBuildNumber(t *testing.T) {
	t.Parallel()

	s := newSettings(t)
	s.Release = false
	s.BuildNumber = "3.6.1.1700000000"

	r := testutil.NewRecordingRunner()
	r.Available = map[string]bool{}
	r.OnRun = func(cmd runtime.Command) {
		// A package from an earlier build must not be picked up.
		testutil.MustWriteFile(t, filepath.Join(cmd.Dir, "polyglot-linear-a-3.6.1.1600000000-1.x86_64.rpm"), "old")
		testutil.MustWriteFile(t, filepath.Join(cmd.Dir, "polyglot-linear-a-3.6.1.1700000000-1.x86_64.rpm"), "new")
	}

	res, err := newPackager(r).Package(context.Background(), platform.OSLinux, s)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(res.Artifact) != "polyglot-linear-a-3.6.1.1700000000-1.x86_64.rpm" {
		t.Errorf("Artifact = %q", res.Artifact)
	}
	cmd, _ := r.Find("jpackage")
	if got := cmd.ArgAfter("--app-version"); got != "3.6.1.1700000000" {
		t.Errorf("--app-version = %q", got)
	}
}

func TestPackage_JpackageFailureIsReported(t *testing.T) {
	t.Parallel()

	s := newSettings(t)
	r := testutil.NewRecordingRunner()
	r.Results = map[string]*runtime.Result{"jpackage": runtime.NewExitCodeResult(types.ExitCode(1))}

	res, err := newPackager(r).Package(context.Background(), platform.OSWindows, s)
	if err != nil {
		t.Fatalf("jpackage failure must not be fatal, got %v", err)
	}
	if !hasProblem(res, issue.ExternalToolFailedId) {
		t.Errorf("problems = %v, want an external tool failure", res.Problems)
	}
}

func TestPackage_JpackageFailureIgnoresStaleInstaller(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target platform.OS
		stale  string
	}{
		{"windows", platform.OSWindows, "PolyGlot-3.6.1.exe"},
		{"linux", platform.OSLinux, "polyglot-linear-a_3.6.1-1_amd64.deb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSettings(t)
			testutil.MustWriteFile(t, filepath.Join(s.ProjectDir, tt.stale), "from an earlier run")
			r := testutil.NewRecordingRunner()
			r.Available = map[string]bool{}
			r.Results = map[string]*runtime.Result{"jpackage": runtime.NewExitCodeResult(types.ExitCode(1))}

			res, err := newPackager(r).Package(context.Background(), tt.target, s)
			if err != nil {
				t.Fatalf("Package() error = %v", err)
			}
			if res.Artifact != "" {
				t.Errorf("Artifact = %q, want none after a failed jpackage", res.Artifact)
			}
			if !hasProblem(res, issue.ExternalToolFailedId) {
				t.Errorf("problems = %v, want an external tool failure", res.Problems)
			}
		})
	}
}

func TestPackage_Windows(t *testing.T) {
	t.Parallel()

	s := newSettings(t)
	s.Release = false
	s.BuildNumber = "3.6.26435"
	testutil.MustMkdirAll(t, filepath.Join(s.ProjectDir, "installer"), 0o755)

	r := testutil.NewRecordingRunner()
	r.OnRun = func(cmd runtime.Command) {
		testutil.MustWriteFile(t, filepath.Join(cmd.Dir, "PolyGlot-3.6.26435.exe"), "exe")
	}

	res, err := newPackager(r).Package(context.Background(), platform.OSWindows, s)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if want := filepath.Join(s.ProjectDir, "PolyGlot-3.6.26435.exe"); res.Artifact != want {
		t.Errorf("Artifact = %q, want %q", res.Artifact, want)
	}
	if testutil.FileExists(t, filepath.Join(s.ProjectDir, "installer")) {
		t.Error("installer directory should be removed on Windows")
	}

	cmd, _ := r.Find("jpackage")
	for _, flag := range []string{"--win-shortcut", "--win-menu", "--win-dir-chooser"} {
		if !cmd.HasArg(flag) {
			t.Errorf("missing %s", flag)
		}
	}
	checks := map[string]string{
		"--win-upgrade-uuid":  fixedUUID,
		"--app-version":       "3.6.26435",
		"--license-file":      "LICENSE.TXT",
		"--icon":              "packaging_files/win/PolyGlot0.ico",
		"--file-associations": "packaging_files/win/file_types_win.prop",
	}
	for flag, want := range checks {
		if got := cmd.ArgAfter(flag); got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}
}

func TestPackage_WindowsFreshUUID(t *testing.T) {
	t.Parallel()

	s := newSettings(t)
	s.DryRun = true
	r := testutil.NewRecordingRunner()
	p := New(r)

	for range 2 {
		if _, err := p.Package(context.Background(), platform.OSWindows, s); err != nil {
			t.Fatal(err)
		}
	}
	cmds := r.FindAll("jpackage")
	a, b := cmds[0].ArgAfter("--win-upgrade-uuid"), cmds[1].ArgAfter("--win-upgrade-uuid")
	if a == "" || a == b {
		t.Errorf("upgrade UUIDs should be fresh per build, got %q and %q", a, b)
	}
}

func TestPackage_DryRunSkipsOutputChecks(t *testing.T) {
	t.Parallel()

	for _, target := range platform.All() {
		t.Run(target.String(), func(t *testing.T) {
			t.Parallel()

			s := newSettings(t)
			s.DryRun = true
			r := testutil.NewRecordingRunner()

			res, err := newPackager(r).Package(context.Background(), target, s)
			if err != nil {
				t.Fatal(err)
			}
			if hasProblem(res, issue.InstallerMissingId) {
				t.Errorf("dry run should not report missing output: %v", res.Problems)
			}
		})
	}
}

func TestPackage_DryRunLeavesFilesystem(t *testing.T) {
	t.Parallel()

	for _, target := range platform.All() {
		t.Run(target.String(), func(t *testing.T) {
			t.Parallel()

			s := newSettings(t)
			s.DryRun = true
			installerFile := filepath.Join(s.ProjectDir, "installer", "previous.deb")
			jli := filepath.Join(s.ProjectDir, "PolyGlot.app", duplicateJLI)
			testutil.MustWriteFile(t, installerFile, "keep")
			testutil.MustWriteFile(t, jli, "keep")

			if _, err := newPackager(testutil.NewRecordingRunner()).Package(context.Background(), target, s); err != nil {
				t.Fatal(err)
			}
			for _, path := range []string{installerFile, jli} {
				if !testutil.FileExists(t, path) {
					t.Errorf("dry run removed %s", path)
				}
			}
		})
	}
}

func TestPackage_UnsupportedTarget(t *testing.T) {
	t.Parallel()

	_, err := newPackager(testutil.NewRecordingRunner()).Package(context.Background(), platform.OS(0), newSettings(t))
	if !errors.Is(err, platform.ErrUnsupportedOS) {
		t.Errorf("error = %v, want ErrUnsupportedOS", err)
	}
}

func TestFindLinuxPackage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "polyglot-linear-a-3.6.1-dir"), 0o755)
	testutil.MustWriteFile(t, filepath.Join(dir, "other_3.6.1.deb"), "x")

	_, err := FindLinuxPackage(dir, "polyglot-linear-a", "3.6.1")
	if err == nil || !strings.Contains(err.Error(), "locate jpackage output") {
		t.Errorf("directories and foreign files must not match, got %v", err)
	}

	testutil.MustWriteFile(t, filepath.Join(dir, "polyglot-linear-a_3.6.1-1_arm64.deb"), "x")
	got, err := FindLinuxPackage(dir, "polyglot-linear-a", "3.6.1")
	if err != nil || filepath.Base(got) != "polyglot-linear-a_3.6.1-1_arm64.deb" {
		t.Errorf("FindLinuxPackage() = %q, %v", got, err)
	}
}
