// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMarkerFileName is the project descriptor that anchors a project root.
const DefaultMarkerFileName MarkerFileName = "pyproject.toml"

// ErrInvalidMarkerFileName is the sentinel error wrapped by InvalidMarkerFileNameError.
var ErrInvalidMarkerFileName = errors.New("invalid marker file name")

type (
	// MarkerFileName is the base name of the file whose presence identifies a
	// project root. It is a single path element, never a path.
	MarkerFileName string

	// InvalidMarkerFileNameError is returned when a MarkerFileName is empty,
	// a relative-directory element, or contains a path separator.
	InvalidMarkerFileNameError struct {
		Value MarkerFileName
	}
)

// String returns the string representation of the MarkerFileName.
func (m MarkerFileName) String() string { return string(m) }

// Validate returns an error if the name is not a single, plain path element.
func (m MarkerFileName) Validate() error {
	s := string(m)
	if strings.TrimSpace(s) == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return &InvalidMarkerFileNameError{Value: m}
	}
	return nil
}

// Error implements the error interface for InvalidMarkerFileNameError.
func (e *InvalidMarkerFileNameError) Error() string {
	return fmt.Sprintf("invalid marker file name %q: must be a single file name", e.Value)
}

// Unwrap returns ErrInvalidMarkerFileName for errors.Is() compatibility.
func (e *InvalidMarkerFileNameError) Unwrap() error { return ErrInvalidMarkerFileName }
