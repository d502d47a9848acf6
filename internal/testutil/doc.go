// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem fixtures (MustWriteFile, MustMkdirAll,
// ResolvedTempDir), resource cleanup (MustClose) and git-backed project
// fixtures (NewGitProject) whose index is written with go-git so tests do not
// depend on the host's git identity configuration.
package testutil
