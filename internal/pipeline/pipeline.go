// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/darisadesigns/pgbuild/internal/assets"
	"github.com/darisadesigns/pgbuild/internal/clock"
	"github.com/darisadesigns/pgbuild/internal/config"
	"github.com/darisadesigns/pgbuild/internal/install"
	"github.com/darisadesigns/pgbuild/internal/manifest"
	"github.com/darisadesigns/pgbuild/internal/packager"
	"github.com/darisadesigns/pgbuild/internal/runtime"
	"github.com/darisadesigns/pgbuild/internal/version"
	"github.com/darisadesigns/pgbuild/pkg/platform"
)

// ErrFatal marks failures that stopped the pipeline.
var ErrFatal = errors.New("packaging aborted")

type (
	// Deps are the collaborators a Pipeline drives.
	Deps struct {
		Runner runtime.Runner
		Clock  clock.Clock
		// Out receives progress lines; nil means os.Stdout.
		Out io.Writer
		// Sentinel is the failure marker in the copy destination, if any.
		Sentinel *install.Sentinel
	}

	// Report summarizes a finished run.
	Report struct {
		Version     string
		BuildNumber string
		// Steps are the steps that ran, in order.
		Steps []config.Step
		// Artifact is the installer the dist step produced.
		Artifact string
		// Copied is where the installer was copied to.
		Copied string
		// Problems are reportable failures that did not stop the run.
		Problems []error
	}

	// Pipeline executes the selected steps for one target OS.
	Pipeline struct {
		opts     config.Options
		cfg      *config.Config
		target   platform.OS
		runner   runtime.Runner
		clock    clock.Clock
		out      io.Writer
		sentinel *install.Sentinel
		injector *assets.Injector
		packager *packager.Packager
	}

	// state carries values resolved at the start of a run into the steps.
	state struct {
		manifest    *manifest.Manifest
		version     string
		buildNumber string
	}
)

// New creates a Pipeline. cfg nil means the built-in defaults.
func New(opts config.Options, cfg *config.Config, target platform.OS, deps Deps) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := clock.OrReal(deps.Clock)
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	return &Pipeline{
		opts:     opts,
		cfg:      cfg,
		target:   target,
		runner:   deps.Runner,
		clock:    c,
		out:      out,
		sentinel: deps.Sentinel,
		injector: assets.NewInjector(opts.ProjectDir, cfg.Paths, c),
		packager: packager.New(deps.Runner),
	}
}

// Run resolves the version and executes every selected step.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	st, err := p.resolveVersion()
	if err != nil {
		return report, fatal("version", err)
	}
	report.Version = st.version
	report.BuildNumber = st.buildNumber

	fmt.Fprintln(p.out, "Building Version: "+st.version)
	resource := version.Resource(st.version, p.opts.Release)
	if p.opts.DryRun {
		p.wouldDo("write version resource %q", resource)
	} else if err := p.injector.WriteVersion(resource); err != nil {
		return report, fatal("version", err)
	}

	steps := map[config.Step]func(context.Context, *state, *Report) error{
		config.StepDocs:  p.docs,
		config.StepBuild: p.build,
		config.StepClean: p.clean,
		config.StepImage: p.image,
		config.StepDist:  p.dist,
	}

	for _, step := range p.opts.Selected() {
		if err := ctx.Err(); err != nil {
			return report, fatal(step.String(), err)
		}
		slog.Debug("running step", "step", step.String())
		report.Steps = append(report.Steps, step)
		if err := steps[step](ctx, st, report); err != nil {
			return report, fatal(step.String(), err)
		}
	}

	return report, nil
}

func (p *Pipeline) resolveVersion() (*state, error) {
	m, err := manifest.Load(p.opts.ProjectDir)
	if err != nil {
		return nil, err
	}
	v, err := m.Version()
	if err != nil {
		return nil, err
	}
	resolver := version.Resolver{OS: p.target, Clock: p.clock}
	return &state{
		manifest:    m,
		version:     v,
		buildNumber: resolver.BuildNumber(v, p.opts.Release),
	}, nil
}

// wouldDo describes a filesystem change a dry run skips.
func (p *Pipeline) wouldDo(format string, args ...any) {
	fmt.Fprintf(p.out, "would "+format+"\n", args...)
}

func fatal(step string, err error) error {
	return fmt.Errorf("%w: %s step: %w", ErrFatal, step, err)
}

// report records a non-fatal problem and logs it.
func (r *Report) report(err error) {
	slog.Warn(err.Error())
	r.Problems = append(r.Problems, err)
}
