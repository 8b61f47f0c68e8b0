// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/assets"
	"github.com/darisadesigns/pgbuild/internal/install"
	"github.com/darisadesigns/pgbuild/internal/issue"
	"github.com/darisadesigns/pgbuild/internal/jdk"
	"github.com/darisadesigns/pgbuild/internal/packager"
	"github.com/darisadesigns/pgbuild/internal/runtime"
	"github.com/darisadesigns/pgbuild/internal/version"
	"github.com/darisadesigns/pgbuild/pkg/platform"
)

// Maven is the build tool driven by the build step.
const Maven = "mvn"

func (p *Pipeline) docs(_ context.Context, _ *state, _ *Report) error {
	fmt.Fprintln(p.out, "Injecting documentation...")
	if p.opts.DryRun {
		p.wouldDo("write %s and %s", p.injector.AssetPath(assets.ReadmeArchive), p.injector.AssetPath(assets.LexiconArchive))
		return nil
	}
	return p.injector.InjectDocs()
}

func (p *Pipeline) build(ctx context.Context, _ *state, _ *Report) error {
	fmt.Fprintln(p.out, "Injecting build date/time...")
	if p.opts.DryRun {
		p.wouldDo("write %s", p.injector.AssetPath(assets.BuildDateFile))
	} else if _, err := p.injector.InjectBuildDate(); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "cleaning/testing/compiling...")
	args := []string{"clean", "package"}
	if p.opts.SkipTests {
		args = append(args, "-DskipTests")
	}
	return p.mustRun(ctx, Maven, runtime.NewCommand(Maven, args...))
}

func (p *Pipeline) clean(_ context.Context, _ *state, _ *Report) error {
	fmt.Fprintln(p.out, "cleaning build paths...")
	for _, dir := range p.cleanDirs() {
		path := filepath.Join(p.opts.ProjectDir, dir)
		if p.opts.DryRun {
			p.wouldDo("remove %s", path)
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		slog.Debug("removed", "path", path)
	}
	return nil
}

// cleanDirs are the jmod output and the directory holding the runtime image.
func (p *Pipeline) cleanDirs() []string {
	buildDir := filepath.Dir(filepath.FromSlash(p.cfg.Paths.ImageDir))
	if buildDir == "." {
		buildDir = filepath.FromSlash(p.cfg.Paths.ImageDir)
	}
	return []string{filepath.FromSlash(p.cfg.Paths.ModsDir), buildDir}
}

func (p *Pipeline) image(ctx context.Context, st *state, _ *Report) error {
	paths := p.cfg.Paths
	prod := p.cfg.Product
	modsDir := filepath.FromSlash(paths.ModsDir)

	if p.opts.DryRun {
		p.wouldDo("create %s", filepath.Join(p.opts.ProjectDir, modsDir))
	} else if err := os.MkdirAll(filepath.Join(p.opts.ProjectDir, modsDir), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", modsDir, err)
	}

	repo, err := jdk.MavenRepo(p.cfg.Image.MavenRepo)
	if err != nil {
		return err
	}
	in := jdk.ModulePathInput{
		InjectedJars:  filepath.FromSlash(paths.InjectedJars),
		ModsDir:       modsDir,
		MavenRepo:     repo,
		JavaFXModules: p.cfg.Image.JavaFXModules,
		IntelJavaFX:   p.target == platform.OSMacOS && p.opts.IntelBuild,
		Versions:      jdk.ResolveVersions(st.manifest),
	}

	fmt.Fprintln(p.out, "creating jmod based on jar built without dependencies...")
	jar := filepath.Join(filepath.FromSlash(paths.TargetDir), prod.JarPrefix+"-"+st.version+".jar")
	jmod := runtime.NewCommand(jdk.Tool(p.opts.JavaHome, jdk.Jmod),
		"create",
		"--class-path", jar,
		"--main-class", prod.JmodMainClass,
		filepath.Join(modsDir, prod.Name+".jmod"),
	)
	if err := p.mustRun(ctx, jdk.Jmod, jmod); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "creating runnable image...")
	jlink := runtime.NewCommand(jdk.Tool(p.opts.JavaHome, jdk.Jlink),
		"--module-path", jdk.Join(p.target, in.Entries()),
		"--add-modules", strings.Join(prod.AddModules, ","),
		"--output", filepath.FromSlash(paths.ImageDir),
		"--compress="+strconv.Itoa(p.cfg.Image.Compress),
		"--launcher", prod.Launcher+"="+prod.Module,
	)
	return p.mustRun(ctx, jdk.Jlink, jlink)
}

func (p *Pipeline) dist(ctx context.Context, st *state, report *Report) error {
	fmt.Fprintf(p.out, "creating %s distribution...\n", p.target)

	if err := version.CheckAppVersion(p.target, st.buildNumberFor(p.target)); err != nil {
		slog.Warn("jpackage may reject the app version", "os", p.target.String(), "error", err)
	}

	res, err := p.packager.Package(ctx, p.target, packager.Settings{
		ProjectDir:      p.opts.ProjectDir,
		JavaHome:        p.opts.JavaHome,
		Version:         st.version,
		BuildNumber:     st.buildNumber,
		Release:         p.opts.Release,
		SignIdentity:    p.opts.MacSignIdentity,
		DistribIdentity: p.opts.MacDistribCert,
		Year:            p.clock.Now().Year(),
		DryRun:          p.opts.DryRun,
		Config:          p.cfg,
	})
	if err != nil {
		return err
	}
	report.Problems = append(report.Problems, res.Problems...)
	report.Artifact = res.Artifact

	if !p.opts.CopyRequested() || res.Artifact == "" {
		return nil
	}

	if p.opts.DryRun {
		p.wouldDo("copy %s to %s", res.Artifact,
			install.Destination(p.opts.CopyDestination, res.Artifact, p.opts.Release))
		return nil
	}

	sentinel := p.sentinel
	if sentinel == nil {
		s := install.NewSentinel(p.opts.CopyDestination, p.target)
		sentinel = &s
	}
	copied, err := install.CopyInstaller(p.opts.CopyDestination, res.Artifact, p.opts.Release, *sentinel)
	if err != nil {
		report.report(err)
		return nil
	}
	fmt.Fprintln(p.out, "Copied installer to "+copied)
	report.Copied = copied
	return nil
}

// buildNumberFor is the --app-version jpackage receives on target.
func (st *state) buildNumberFor(target platform.OS) string {
	if target == platform.OSMacOS {
		return st.version
	}
	return st.buildNumber
}

// mustRun runs cmd in the project directory; any failure is returned.
func (p *Pipeline) mustRun(ctx context.Context, tool string, cmd runtime.Command) error {
	res := p.runner.Run(ctx, cmd.In(p.opts.ProjectDir))
	if res.Success() {
		return nil
	}
	slog.Debug("command failed", "command", cmd.String(), "exit_code", int(res.ExitCode))
	return issue.NewErrorContext().
		WithOperation("run " + tool).
		WithResource(p.opts.ProjectDir).
		WithSuggestion("Check the " + tool + " output above for the cause").
		WithSuggestion("Re-run with --verbose to see the exact command line").
		WithIssue(issue.ExternalToolFailedId).
		Wrap(res.Err()).
		BuildError()
}
