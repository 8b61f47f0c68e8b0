// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, MustUnsetenv),
// directory and file operations (MustChdir, MustMkdirAll, MustWriteFile), a
// FakeClock, and a RecordingRunner that stands in for external build tools.
package testutil
