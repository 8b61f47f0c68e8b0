// SPDX-License-Identifier: MPL-2.0

package jdk

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Tools shipped in $JAVA_HOME/bin that pgbuild drives.
const (
	Jmod     = "jmod"
	Jlink    = "jlink"
	Jpackage = "jpackage"
)

// Tool returns the path of a JDK tool under javaHome. The extension is left
// off so that Windows resolves jpackage.exe itself.
func Tool(javaHome, name string) string {
	return filepath.Join(javaHome, "bin", name)
}

// MavenRepo returns override when set, otherwise ~/.m2/repository.
func MavenRepo(override string) (string, error) {
	if override != "" {
		return homedir.Expand(override)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".m2", "repository"), nil
}
