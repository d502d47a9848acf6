// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/coil/pkg/fspath"
	"github.com/invowk/coil/pkg/types"
)

// ErrRootNotFound is the sentinel error wrapped by NotFoundError.
var ErrRootNotFound = errors.New("project root not found")

type (
	// Root is a resolved, absolute directory that contains the marker file.
	// It is produced only by Locator.Find and never changes afterwards.
	Root struct {
		dir    types.FilesystemPath
		marker types.MarkerFileName
	}

	// NotFoundError is returned when neither the start directory nor any of
	// its ancestors contains the marker file.
	NotFoundError struct {
		Start  types.FilesystemPath
		Marker types.MarkerFileName
	}

	// Locator finds project roots by a single marker file name.
	Locator struct {
		marker types.MarkerFileName
		logger *log.Logger
	}

	// LocatorOption configures a Locator.
	LocatorOption func(*Locator)
)

// Dir returns the root directory.
func (r Root) Dir() types.FilesystemPath { return r.dir }

// Marker returns the marker file name that identified the root.
func (r Root) Marker() types.MarkerFileName { return r.marker }

// MarkerPath returns the absolute path of the marker file.
func (r Root) MarkerPath() types.FilesystemPath {
	return fspath.JoinStr(r.dir, string(r.marker))
}

// String returns the root directory.
func (r Root) String() string { return string(r.dir) }

// IsZero reports whether r was never resolved.
func (r Root) IsZero() bool { return r.dir == "" }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s in %s or any of its parent directories", e.Marker, e.Start)
}

// Unwrap returns ErrRootNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrRootNotFound }

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *log.Logger) LocatorOption {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocator creates a Locator for the given marker. An empty marker selects
// types.DefaultMarkerFileName.
func NewLocator(marker types.MarkerFileName, opts ...LocatorOption) (*Locator, error) {
	if marker == "" {
		marker = types.DefaultMarkerFileName
	}
	if err := marker.Validate(); err != nil {
		return nil, err
	}
	l := &Locator{
		marker: marker,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Marker returns the marker file name this locator searches for.
func (l *Locator) Marker() types.MarkerFileName { return l.marker }

// Find returns the nearest directory at or above start that contains the
// marker file. An empty start means the process working directory. The
// start path is made absolute and its symlinks resolved before walking, so
// the returned root is directly comparable with paths reported by git.
// A start that does not exist yet is walked from its nearest existing
// ancestor.
func (l *Locator) Find(start types.FilesystemPath) (Root, error) {
	if start.IsEmpty() {
		wd, err := os.Getwd()
		if err != nil {
			return Root{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		start = types.FilesystemPath(wd)
	}

	current, err := fspath.ResolvePartial(start)
	if err != nil {
		return Root{}, fmt.Errorf("failed to resolve start directory %s: %w", start, err)
	}

	for dir := current; ; dir = fspath.Dir(dir) {
		if l.hasMarker(dir) {
			l.logger.Debug("found project root", "root", dir, "marker", l.marker)
			return Root{dir: dir, marker: l.marker}, nil
		}
		if fspath.IsRoot(dir) {
			break
		}
	}

	return Root{}, &NotFoundError{Start: current, Marker: l.marker}
}

// hasMarker reports whether dir contains a marker entry that is not a
// directory. Symlinks to files count.
func (l *Locator) hasMarker(dir types.FilesystemPath) bool {
	info, err := os.Stat(string(fspath.JoinStr(dir, string(l.marker))))
	return err == nil && !info.IsDir()
}

// FindRoot is a convenience wrapper around NewLocator(marker).Find(start).
func FindRoot(start types.FilesystemPath, marker types.MarkerFileName) (Root, error) {
	l, err := NewLocator(marker)
	if err != nil {
		return Root{}, err
	}
	return l.Find(start)
}

// NewRoot builds a Root from an already-resolved directory without walking.
// The directory must contain the marker file.
func NewRoot(dir types.FilesystemPath, marker types.MarkerFileName) (Root, error) {
	l, err := NewLocator(marker)
	if err != nil {
		return Root{}, err
	}
	resolved, err := fspath.Resolve(dir)
	if err != nil {
		return Root{}, fmt.Errorf("failed to resolve root %s: %w", dir, err)
	}
	if !l.hasMarker(resolved) {
		return Root{}, &NotFoundError{Start: resolved, Marker: l.marker}
	}
	return Root{dir: resolved, marker: l.marker}, nil
}
