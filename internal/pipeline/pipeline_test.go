// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/darisadesigns/pgbuild/internal/assets"
	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/install"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/internal/manifest"
	"github.com/darisadesigns/pgbuild/internal/runtime"
	"github.com/darisadesigns/pgbuild/internal/testutil"
	"github.com/darisadesigns/pgbuild/pkg/platform"
)

const pom = `<?xml version="1.0" encoding="UTF-8"?>
<project>
    <modelVersion>4.0.0</modelVersion>
    <artifactId>PolyGlotLinA</artifactId>
    <version>3.6.1</version>
    <dependencies>
        <dependency>
            <groupId>com.fasterxml.jackson.core</groupId>
            <artifactId>jackson-databind</artifactId>
            <version>2.15.2</version>
        </dependency>
        <dependency>
            <groupId>org.openjfx</groupId>
            <artifactId>javafx-controls</artifactId>
            <version>21</version>
        </dependency>
        <dependency>
            <groupId>org.jsoup</groupId>
            <artifactId>jsoup</artifactId>
            <version>1.16.1</version>
        </dependency>
        <dependency>
            <groupId>org.apache.commons</groupId>
            <artifactId>commons-lang3</artifactId>
            <version>3.12.0</version>
        </dependency>
    </dependencies>
</project>
`

// 2023-11-14T22:13:20Z, epoch 1700000000.
var fixedNow = time.Unix(1700000000, 0).UTC()

type fixture struct {
	dir    string
	runner *testutil.RecordingRunner
	out    *bytes.Buffer
	cfg    *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, manifest.FileName), pom)

	cfg := config.DefaultConfig()
	cfg.Image.MavenRepo = filepath.Join(dir, ".m2", "repository")
	return &fixture{
		dir:    dir,
		runner: testutil.NewRecordingRunner(),
		out:    &bytes.Buffer{},
		cfg:    cfg,
	}
}

func (f *fixture) options(steps ...config.Step) config.Options {
	return config.Options{
		ProjectDir: f.dir,
		Steps:      steps,
		JavaHome:   filepath.Join("opt", "jdk"),
	}
}

func (f *fixture) pipeline(opts config.Options, target platform.OS) *Pipeline {
	return New(opts, f.cfg, target, Deps{
		Runner: f.runner,
		Clock:  testutil.NewFakeClock(fixedNow),
		Out:    f.out,
	})
}

func TestRun_VersionResource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		release bool
		target  platform.OS
		want    string
		build   string
	}{
		{"release", true, platform.OSLinux, "3.6.1", "3.6.1"},
		{"beta linux", false, platform.OSLinux, "3.6.1B", "3.6.1.1700000000"},
		{"beta windows", false, platform.OSWindows, "3.6.1B", "3.6.26435"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			opts := f.options(config.StepClean)
			opts.Release = tt.release

			report, err := f.pipeline(opts, tt.target).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if report.Version != "3.6.1" {
				t.Errorf("Version = %q", report.Version)
			}
			if report.BuildNumber != tt.build {
				t.Errorf("BuildNumber = %q, want %q", report.BuildNumber, tt.build)
			}

			inj := assets.NewInjector(f.dir, f.cfg.Paths, nil)
			if got := testutil.MustReadFile(t, inj.AssetPath(assets.VersionFile)); got != tt.want {
				t.Errorf("version resource = %q, want %q", got, tt.want)
			}
			if !strings.Contains(f.out.String(), "Building Version: 3.6.1\n") {
				t.Errorf("output missing version line:\n%s", f.out.String())
			}
		})
	}
}

func TestRun_MissingManifest(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	testutil.MustRemoveAll(t, filepath.Join(f.dir, manifest.FileName))

	_, err := f.pipeline(f.options(), platform.OSLinux).Run(context.Background())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("Run() error = %v, want ErrFatal", err)
	}
	if len(f.runner.Commands()) != 0 {
		t.Errorf("no command should run, got %v", f.runner.Programs())
	}
}

func TestRun_StepOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// Requested out of order; execution follows pipeline order.
	opts := f.options(config.StepImage, config.StepBuild)
	opts.SkipTests = true

	report, err := f.pipeline(opts, platform.OSLinux).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := []config.Step{config.StepBuild, config.StepImage}; !slices.Equal(report.Steps, want) {
		t.Errorf("Steps = %v, want %v", report.Steps, want)
	}
	if got, want := f.runner.Programs(), []string{"mvn", "jmod", "jlink"}; !slices.Equal(got, want) {
		t.Errorf("programs = %v, want %v", got, want)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		skipTests bool
		want      []string
	}{
		{"with tests", false, []string{"clean", "package"}},
		{"skip tests", true, []string{"clean", "package", "-DskipTests"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			opts := f.options(config.StepBuild)
			opts.SkipTests = tt.skipTests

			if _, err := f.pipeline(opts, platform.OSLinux).Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			mvn, ok := f.runner.Find("mvn")
			if !ok {
				t.Fatal("mvn was not run")
			}
			if !slices.Equal(mvn.Args, tt.want) {
				t.Errorf("mvn args = %v, want %v", mvn.Args, tt.want)
			}
			if mvn.Dir != f.dir {
				t.Errorf("mvn dir = %q, want %q", mvn.Dir, f.dir)
			}

			inj := assets.NewInjector(f.dir, f.cfg.Paths, nil)
			if got := testutil.MustReadFile(t, inj.AssetPath(assets.BuildDateFile)); got != fixedNow.Format(assets.BuildDateLayout) {
				t.Errorf("build date = %q", got)
			}
		})
	}
}

func TestBuild_FailureIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.runner.Results = map[string]*runtime.Result{"mvn": runtime.NewExitCodeResult(1)}

	report, err := f.pipeline(f.options(config.StepBuild, config.StepImage), platform.OSLinux).Run(context.Background())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("Run() error = %v, want ErrFatal", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.ExternalToolFailedId {
		t.Errorf("error should carry ExternalToolFailedId, got %v", err)
	}
	if !strings.Contains(err.Error(), "build step") {
		t.Errorf("error should name the step: %v", err)
	}
	if slices.Contains(f.runner.Programs(), "jmod") {
		t.Error("image must not run after a failed build")
	}
	if !slices.Equal(report.Steps, []config.Step{config.StepBuild}) {
		t.Errorf("Steps = %v", report.Steps)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	mods := filepath.Join(f.dir, "target", "mods", "PolyGlot.jmod")
	image := filepath.Join(f.dir, "build", "image", "bin", "PolyGlot")
	jar := filepath.Join(f.dir, "target", "PolyGlotLinA-3.6.1.jar")
	for _, p := range []string{mods, image, jar} {
		testutil.MustWriteFile(t, p, "x")
	}

	if _, err := f.pipeline(f.options(config.StepClean), platform.OSLinux).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if testutil.FileExists(t, filepath.Dir(mods)) {
		t.Error("mods directory should be removed")
	}
	if testutil.FileExists(t, filepath.Join(f.dir, "build")) {
		t.Error("build directory should be removed")
	}
	if !testutil.FileExists(t, jar) {
		t.Error("clean must keep the built jar")
	}
}

func TestImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.pipeline(f.options(config.StepImage), platform.OSLinux).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !testutil.FileExists(t, filepath.Join(f.dir, "target", "mods")) {
		t.Error("mods directory should be created before jmod runs")
	}

	jmod, ok := f.runner.Find("jmod")
	if !ok {
		t.Fatal("jmod was not run")
	}
	if want := filepath.Join("opt", "jdk", "bin", "jmod"); jmod.Name != want {
		t.Errorf("jmod program = %q, want %q", jmod.Name, want)
	}
	if got, want := jmod.ArgAfter("--class-path"), filepath.Join("target", "PolyGlotLinA-3.6.1.jar"); got != want {
		t.Errorf("--class-path = %q, want %q", got, want)
	}
	if got := jmod.ArgAfter("--main-class"); got != f.cfg.Product.JmodMainClass {
		t.Errorf("--main-class = %q", got)
	}
	if got, want := jmod.Args[len(jmod.Args)-1], filepath.Join("target", "mods", "PolyGlot.jmod"); got != want {
		t.Errorf("jmod output = %q, want %q", got, want)
	}

	jlink, ok := f.runner.Find("jlink")
	if !ok {
		t.Fatal("jlink was not run")
	}
	modulePath := strings.Split(jlink.ArgAfter("--module-path"), ":")
	if modulePath[0] != "module_injected_jars" || modulePath[1] != filepath.Join("target", "mods") {
		t.Errorf("module path should start with the project-relative entries, got %v", modulePath[:2])
	}
	if !strings.Contains(jlink.ArgAfter("--module-path"), filepath.Join("org", "openjfx", "javafx-controls", "21")) {
		t.Errorf("module path should reference the JavaFX version from the manifest: %s", jlink.ArgAfter("--module-path"))
	}
	if got := jlink.ArgAfter("--add-modules"); got != strings.Join(f.cfg.Product.AddModules, ",") {
		t.Errorf("--add-modules = %q", got)
	}
	if got := jlink.ArgAfter("--output"); got != filepath.Join("build", "image") {
		t.Errorf("--output = %q", got)
	}
	if !jlink.HasArg("--compress=2") {
		t.Errorf("jlink should compress: %v", jlink.Args)
	}
	if got := jlink.ArgAfter("--launcher"); got != f.cfg.Product.Launcher+"="+f.cfg.Product.Module {
		t.Errorf("--launcher = %q", got)
	}
}

func TestImage_JmodFailureIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.runner.Results = map[string]*runtime.Result{"jmod": runtime.NewExitCodeResult(1)}

	_, err := f.pipeline(f.options(config.StepImage), platform.OSLinux).Run(context.Background())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("Run() error = %v, want ErrFatal", err)
	}
	if slices.Contains(f.runner.Programs(), "jlink") {
		t.Error("jlink must not run after jmod failed")
	}
}

func TestDocs_MissingDocsIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.pipeline(f.options(config.StepDocs), platform.OSLinux).Run(context.Background())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("Run() error = %v, want ErrFatal", err)
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	testutil.MustWriteFile(t, filepath.Join(f.dir, "docs", "readme.html"), "<html></html>")
	testutil.MustMkdirAll(t, filepath.Join(f.dir, "packaging_files", "example_lexicons"), 0o755)

	if _, err := f.pipeline(f.options(config.StepDocs), platform.OSLinux).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	inj := assets.NewInjector(f.dir, f.cfg.Paths, nil)
	if !testutil.FileExists(t, inj.AssetPath(assets.ReadmeArchive)) {
		t.Error("readme archive should exist")
	}
	if len(f.runner.Commands()) != 0 {
		t.Errorf("docs runs no commands, got %v", f.runner.Programs())
	}
}

func windowsFixture(t *testing.T) (*fixture, string) {
	t.Helper()
	f := newFixture(t)
	exe := filepath.Join(f.dir, "PolyGlot-3.6.1.exe")
	f.runner.OnRun = func(cmd runtime.Command) {
		if cmd.HasArg("--win-upgrade-uuid") {
			testutil.MustWriteFile(t, exe, "installer")
		}
	}
	return f, exe
}

func TestDist_CopiesInstaller(t *testing.T) {
	t.Parallel()

	f, exe := windowsFixture(t)
	dest := t.TempDir()
	sentinel := install.NewSentinel(dest, platform.OSWindows)
	if err := sentinel.Create(); err != nil {
		t.Fatal(err)
	}

	opts := f.options(config.StepDist)
	opts.Release = true
	opts.CopyDestination = dest

	p := New(opts, f.cfg, platform.OSWindows, Deps{
		Runner:   f.runner,
		Clock:    testutil.NewFakeClock(fixedNow),
		Out:      f.out,
		Sentinel: &sentinel,
	})
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Problems) != 0 {
		t.Errorf("unexpected problems: %v", report.Problems)
	}
	if report.Artifact != exe {
		t.Errorf("Artifact = %q, want %q", report.Artifact, exe)
	}
	want := filepath.Join(dest, install.ReleaseDir, "PolyGlot-3.6.1.exe")
	if report.Copied != want {
		t.Errorf("Copied = %q, want %q", report.Copied, want)
	}
	if got := testutil.MustReadFile(t, want); got != "installer" {
		t.Errorf("copied content = %q", got)
	}
	if sentinel.Exists() {
		t.Error("sentinel should be cleared after a successful copy")
	}
}

func TestDist_JpackageFailureIsReported(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.runner.Results = map[string]*runtime.Result{"jpackage": runtime.NewExitCodeResult(1)}
	dest := t.TempDir()
	sentinel := install.NewSentinel(dest, platform.OSWindows)
	if err := sentinel.Create(); err != nil {
		t.Fatal(err)
	}

	opts := f.options(config.StepDist)
	opts.Release = true
	opts.CopyDestination = dest
	p := New(opts, f.cfg, platform.OSWindows, Deps{Runner: f.runner, Clock: testutil.NewFakeClock(fixedNow), Out: f.out, Sentinel: &sentinel})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("jpackage failure should not abort the run: %v", err)
	}
	if len(report.Problems) == 0 {
		t.Error("jpackage failure should be reported as a problem")
	}
	if report.Copied != "" {
		t.Errorf("nothing should be copied, got %q", report.Copied)
	}
	if !sentinel.Exists() {
		t.Error("sentinel must stay when no installer was copied")
	}
}

func TestDist_DryRunDoesNotCopy(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	dest := t.TempDir()
	opts := f.options(config.StepDist)
	opts.Release = true
	opts.DryRun = true
	opts.CopyDestination = dest

	report, err := f.pipeline(opts, platform.OSWindows).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Copied != "" {
		t.Errorf("dry run must not copy, got %q", report.Copied)
	}
	if !strings.Contains(f.out.String(), "would copy") {
		t.Errorf("dry run should describe the copy:\n%s", f.out.String())
	}
	if testutil.FileExists(t, filepath.Join(dest, install.ReleaseDir)) {
		t.Error("dry run must not create the destination folder")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline(f.options(config.StepBuild), platform.OSLinux).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(f.runner.Commands()) != 0 {
		t.Errorf("no command should run, got %v", f.runner.Programs())
	}
}

func TestRun_DryRunLeavesFilesystem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	image := filepath.Join(f.dir, "build", "image", "release")
	testutil.MustWriteFile(t, image, "keep")
	testutil.MustWriteFile(t, filepath.Join(f.dir, "docs", "readme.html"), "<html></html>")
	testutil.MustMkdirAll(t, filepath.Join(f.dir, "packaging_files", "example_lexicons"), 0o755)

	opts := f.options()
	opts.DryRun = true

	report, err := f.pipeline(opts, platform.OSLinux).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Steps) != len(config.AllSteps()) {
		t.Errorf("Steps = %v, want every step", report.Steps)
	}
	if !testutil.FileExists(t, image) {
		t.Error("dry run must not remove the runtime image")
	}
	if testutil.FileExists(t, filepath.Join(f.dir, "target", "mods")) {
		t.Error("dry run must not create the mods directory")
	}
	if testutil.FileExists(t, filepath.Join(f.dir, "assets")) {
		t.Error("dry run must not write asset files")
	}
	if !strings.Contains(f.out.String(), "would remove") {
		t.Errorf("dry run should describe skipped removals:\n%s", f.out.String())
	}
	if got, want := f.runner.Programs(), []string{"mvn", "jmod", "jlink", "jpackage"}; !slices.Equal(got, want) {
		t.Errorf("programs = %v, want %v", got, want)
	}
}
