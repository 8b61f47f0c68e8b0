// SPDX-License-Identifier: MPL-2.0

// Package runtime provides the seam through which pgbuild runs external tools.
//
// Every packaging step is an argv list handed to a Runner. Two runners are
// available:
//   - NativeRunner: spawns the process with os/exec, streaming its output
//   - DryRunner: prints the shell-quoted command line and reports success
//
// Commands are never built by string concatenation and never pass through a
// shell, so arguments such as copyright strings with spaces need no quoting.
// Tests substitute their own Runner to assert on the exact argv.
package runtime
