// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidArchiveName is the sentinel error wrapped by InvalidArchiveNameError.
var ErrInvalidArchiveName = errors.New("invalid archive name")

type (
	// ArchiveName is the name an entry is stored under inside an archive.
	// It is always relative to the project root and uses forward slashes
	// regardless of the host OS.
	ArchiveName string

	// InvalidArchiveNameError is returned when an ArchiveName is empty, absolute,
	// not in clean form, or climbs above the archive root.
	InvalidArchiveNameError struct {
		Value  ArchiveName
		Reason string
	}
)

// String returns the string representation of the ArchiveName.
func (n ArchiveName) String() string { return string(n) }

// Validate returns an error unless the name is a clean, relative,
// slash-separated path that stays inside the archive root.
func (n ArchiveName) Validate() error {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidArchiveNameError{Value: n, Reason: "must be non-empty"}
	case s == ".":
		return &InvalidArchiveNameError{Value: n, Reason: "must name an entry below the root"}
	case strings.HasPrefix(s, "/"):
		return &InvalidArchiveNameError{Value: n, Reason: "must be relative"}
	case strings.Contains(s, `\`):
		return &InvalidArchiveNameError{Value: n, Reason: "must use forward slashes"}
	case s == ".." || strings.HasPrefix(s, "../"):
		return &InvalidArchiveNameError{Value: n, Reason: "must not escape the root"}
	case path.Clean(s) != s:
		return &InvalidArchiveNameError{Value: n, Reason: "must be in clean form"}
	}
	return nil
}

// Error implements the error interface for InvalidArchiveNameError.
func (e *InvalidArchiveNameError) Error() string {
	return fmt.Sprintf("invalid archive name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidArchiveName for errors.Is() compatibility.
func (e *InvalidArchiveNameError) Unwrap() error { return ErrInvalidArchiveName }
