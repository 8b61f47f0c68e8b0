// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/darisadesigns/pgbuild/pkg/platform"
)

// SentinelSuffix follows the host system name in the sentinel file name.
const SentinelSuffix = "_BUILD_FAILED"

// Sentinel is the empty file that stays in the destination until an
// installer has been copied there successfully.
type Sentinel struct {
	path string
}

// NewSentinel returns the sentinel for host inside dest,
// e.g. <dest>/Linux_BUILD_FAILED.
func NewSentinel(dest string, host platform.OS) Sentinel {
	return Sentinel{path: filepath.Join(dest, host.SystemName()+SentinelSuffix)}
}

// Path returns the sentinel location.
func (s Sentinel) Path() string { return s.path }

// Create writes the empty sentinel, creating the destination if needed.
// An existing sentinel is truncated.
func (s Sentinel) Create() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create copy destination: %w", err)
	}
	if err := os.WriteFile(s.path, nil, 0o644); err != nil {
		return fmt.Errorf("failed to create failure sentinel: %w", err)
	}
	return nil
}

// Clear removes the sentinel. A missing sentinel is not an error.
func (s Sentinel) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove failure sentinel: %w", err)
	}
	return nil
}

// Exists reports whether the sentinel is present.
func (s Sentinel) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
