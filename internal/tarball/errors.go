// SPDX-License-Identifier: MPL-2.0

package tarball

import (
	"errors"
	"fmt"

	"github.com/invowk/coil/pkg/types"
)

var (
	// ErrOutsideRoot is the sentinel error wrapped by PathError.
	ErrOutsideRoot = errors.New("path is not under the project root")

	// ErrArchiveClosed is returned when writing to a finalized archive.
	ErrArchiveClosed = errors.New("archive already closed")

	// ErrArchiveOpen is returned when reading an archive that has not been
	// finalized yet.
	ErrArchiveOpen = errors.New("archive not finalized")

	// ErrUnsupportedFileType is returned for paths that are neither regular
	// files nor symbolic links.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// PathError is returned when a path cannot be expressed relative to the
// archive root.
type PathError struct {
	Path types.FilesystemPath
	Root types.FilesystemPath
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("cannot archive %s: not under project root %s", e.Path, e.Root)
}

// Unwrap returns ErrOutsideRoot for errors.Is() compatibility.
func (e *PathError) Unwrap() error { return ErrOutsideRoot }
