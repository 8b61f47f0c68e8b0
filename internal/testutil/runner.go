// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/darisadesigns/pgbuild/internal/runtime"
)

// RecordingRunner is a runtime.Runner that records every command instead of
// executing it. Results are scripted per program base name.
type RecordingRunner struct {
	mu       sync.Mutex
	commands []runtime.Command

	// Results maps a program base name (e.g. "jpackage") to the result it
	// returns. Unlisted programs succeed.
	Results map[string]*runtime.Result
	// Available lists programs LookPath resolves. Nil means every program
	// is available.
	Available map[string]bool
	// OnRun is invoked for every command before its result is returned,
	// letting tests create the files a real tool would produce.
	OnRun func(cmd runtime.Command)
}

// NewRecordingRunner returns a runner where every program exists and succeeds.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{}
}

// Run records cmd and returns its scripted result.
func (r *RecordingRunner) Run(_ context.Context, cmd runtime.Command) *runtime.Result {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	hook := r.OnRun
	res, ok := r.Results[programName(cmd.Name)]
	r.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	if !ok || res == nil {
		return runtime.NewSuccessResult()
	}
	return res
}

// LookPath resolves name against Available.
func (r *RecordingRunner) LookPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Available == nil || r.Available[name] {
		return filepath.Join("/usr/bin", name), nil
	}
	return "", &runtime.ToolNotFoundError{Name: name}
}

// Commands returns a copy of the recorded commands in execution order.
func (r *RecordingRunner) Commands() []runtime.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]runtime.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Programs returns the base names of the recorded programs in order.
func (r *RecordingRunner) Programs() []string {
	cmds := r.Commands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = programName(c.Name)
	}
	return names
}

// Find returns the first recorded command for the program base name.
func (r *RecordingRunner) Find(name string) (runtime.Command, bool) {
	for _, c := range r.Commands() {
		if programName(c.Name) == name {
			return c, true
		}
	}
	return runtime.Command{}, false
}

// FindAll returns every recorded command for the program base name.
func (r *RecordingRunner) FindAll(name string) []runtime.Command {
	var out []runtime.Command
	for _, c := range r.Commands() {
		if programName(c.Name) == name {
			out = append(out, c)
		}
	}
	return out
}

func programName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.TrimSuffix(base, ".exe")
}
