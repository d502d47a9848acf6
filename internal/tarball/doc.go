// SPDX-License-Identifier: MPL-2.0

// Package tarball assembles project files into an in-memory tar archive,
// optionally gzip framed. Entry names are relative to the project root and
// always use forward slashes.
package tarball
