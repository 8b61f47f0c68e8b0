// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is a single external process invocation.
type Command struct {
	// Name is the program to run. Bare names are resolved through PATH;
	// names containing a path separator are used as given.
	Name string
	// Args are passed verbatim, without shell interpretation.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// NewCommand creates a Command for name with args.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Name)
	return append(argv, c.Args...)
}

// HasArg reports whether arg appears verbatim among the arguments.
func (c Command) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// ArgAfter returns the argument following flag, or "" if flag is absent or last.
func (c Command) ArgAfter(flag string) string {
	for i, a := range c.Args {
		if a == flag && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
	}
	return ""
}

// String renders the command as a POSIX shell line that could be pasted into
// a terminal. Used for logs and dry runs only.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, a := range c.Argv() {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only unprintable input fails to quote; show it raw.
		return s
	}
	return q
}
