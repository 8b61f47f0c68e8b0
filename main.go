// SPDX-License-Identifier: MPL-2.0

// pgbuild builds and packages PolyGlot into native installers.
package main

import "github.com/darisadesigns/pgbuild/cmd/pgbuild"

func main() {
	cmd.Execute()
}
