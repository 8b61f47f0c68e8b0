// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"slices"
	"testing"
)

func TestCommand_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{
			name: "plain arguments",
			cmd:  NewCommand("mvn", "clean", "package"),
			want: "mvn clean package",
		},
		{
			name: "argument with spaces is quoted",
			cmd:  NewCommand("jpackage", "--copyright", "2014-2026 Draque Thompson"),
			want: "jpackage --copyright '2014-2026 Draque Thompson'",
		},
		{
			name: "empty argument is kept",
			cmd:  NewCommand("echo", ""),
			want: "echo ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommand_ArgHelpers(t *testing.T) {
	t.Parallel()

	cmd := NewCommand("codesign", "--force", "--sign", "Dev ID", "PolyGlot.app").In("/tmp/work")

	if !slices.Equal(cmd.Argv(), []string{"codesign", "--force", "--sign", "Dev ID", "PolyGlot.app"}) {
		t.Errorf("Argv() = %v", cmd.Argv())
	}
	if cmd.Dir != "/tmp/work" {
		t.Errorf("Dir = %q, want /tmp/work", cmd.Dir)
	}
	if !cmd.HasArg("--force") || cmd.HasArg("--options") {
		t.Error("HasArg() gave the wrong answer")
	}
	if got := cmd.ArgAfter("--sign"); got != "Dev ID" {
		t.Errorf("ArgAfter(--sign) = %q, want %q", got, "Dev ID")
	}
	if got := cmd.ArgAfter("PolyGlot.app"); got != "" {
		t.Errorf("ArgAfter(last) = %q, want empty", got)
	}
}
