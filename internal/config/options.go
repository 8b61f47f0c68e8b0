// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/darisadesigns/pgbuild/internal/issue"
)

const (
	// StepDocs zips the documentation and example lexicons into the assets.
	StepDocs Step = "docs"
	// StepBuild compiles the application with Maven.
	StepBuild Step = "build"
	// StepClean removes previous jmod and image output.
	StepClean Step = "clean"
	// StepImage assembles the jlink runtime image.
	StepImage Step = "image"
	// StepDist runs the platform packager.
	StepDist Step = "dist"
)

var (
	// ErrInvalidStep is returned when a step name is not recognized.
	ErrInvalidStep = errors.New("invalid step")
	// ErrJavaHomeMissing is returned when no JDK root could be resolved.
	ErrJavaHomeMissing = errors.New("JAVA_HOME is not set")
)

type (
	// Step names one stage of the packaging pipeline.
	Step string

	// InvalidStepError reports an unknown step name.
	InvalidStepError struct {
		Value string
	}

	// Options is the immutable record of one invocation. It is built once by
	// the CLI and passed by value; nothing in it is modified afterwards.
	Options struct {
		// ProjectDir is the PolyGlot checkout every relative path resolves against.
		ProjectDir string
		// Steps lists the selected steps. Empty selects all of them.
		Steps []Step
		// Release selects release numbering and the Release/ destination folder.
		Release bool
		// CopyDestination is where the finished installer is copied. Empty
		// disables copying and the failure sentinel.
		CopyDestination string
		SkipTests       bool
		// JavaHome is the resolved JDK root.
		JavaHome        string
		MacSignIdentity string
		MacDistribCert  string
		// IntelBuild selects the Intel JavaFX artifacts on macOS.
		IntelBuild bool
		DryRun     bool
		Verbose    bool
	}
)

// AllSteps returns every step in pipeline order.
func AllSteps() []Step {
	return []Step{StepDocs, StepBuild, StepClean, StepImage, StepDist}
}

// String returns the step name.
func (s Step) String() string { return string(s) }

// IsValid reports whether s names a known step.
func (s Step) IsValid() bool {
	return slices.Contains(AllSteps(), s)
}

// Error implements the error interface.
func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid step %q (valid: %s)", e.Value, strings.Join(stepNames(), ", "))
}

// Unwrap returns ErrInvalidStep for errors.Is compatibility.
func (e *InvalidStepError) Unwrap() error { return ErrInvalidStep }

// ParseSteps validates raw step names. Duplicates are dropped and the result
// keeps pipeline order regardless of the order given.
func ParseSteps(raw []string) ([]Step, error) {
	seen := make(map[Step]bool, len(raw))
	for _, r := range raw {
		s := Step(strings.ToLower(strings.TrimSpace(r)))
		if !s.IsValid() {
			return nil, issue.NewErrorContext().
				WithOperation("select pipeline steps").
				WithResource("--step " + r).
				WithSuggestion("Valid steps are: " + strings.Join(stepNames(), ", ")).
				WithSuggestion("Omit --step entirely to run every step").
				WithIssue(issue.InvalidStepId).
				Wrap(&InvalidStepError{Value: r}).
				BuildError()
		}
		seen[s] = true
	}

	steps := make([]Step, 0, len(seen))
	for _, s := range AllSteps() {
		if seen[s] {
			steps = append(steps, s)
		}
	}
	return steps, nil
}

// Runs reports whether step s is selected.
func (o Options) Runs(s Step) bool {
	return len(o.Steps) == 0 || slices.Contains(o.Steps, s)
}

// Selected returns the steps that will run, in pipeline order.
func (o Options) Selected() []Step {
	var steps []Step
	for _, s := range AllSteps() {
		if o.Runs(s) {
			steps = append(steps, s)
		}
	}
	return steps
}

// CopyRequested reports whether the installer should be copied out.
func (o Options) CopyRequested() bool {
	return o.CopyDestination != ""
}

// ResolveJavaHome picks the JDK root: the explicit override first, then the
// configured value (which already carries JAVA_HOME over the file value).
func ResolveJavaHome(override string, cfg *Config) (string, error) {
	if override != "" {
		return override, nil
	}
	if cfg != nil && cfg.JavaHome != "" {
		return cfg.JavaHome, nil
	}
	return "", issue.NewErrorContext().
		WithOperation("locate the JDK").
		WithSuggestion("Export JAVA_HOME pointing at a JDK 14 or newer").
		WithSuggestion("Or pass --java_home_o <path>").
		WithSuggestion("Or set java_home in pgbuild.cue").
		WithIssue(issue.JavaHomeMissingId).
		Wrap(ErrJavaHomeMissing).
		BuildError()
}

func stepNames() []string {
	names := make([]string, 0, len(AllSteps()))
	for _, s := range AllSteps() {
		names = append(names, string(s))
	}
	return names
}
