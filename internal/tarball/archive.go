// SPDX-License-Identifier: MPL-2.0

package tarball

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"

	"github.com/invowk/coil/pkg/fspath"
	"github.com/invowk/coil/pkg/types"
)

type (
	// Entry describes one member written to an archive.
	Entry struct {
		Path     types.FilesystemPath
		Name     types.ArchiveName
		Mode     fs.FileMode
		Size     int64
		Linkname string
	}

	// Option configures an archive created by Create.
	Option func(*options)

	options struct {
		gzipLevel int
		mtime     time.Time
		logger    *log.Logger
	}

	// Archive is an append-only tar writer bound to an in-memory buffer.
	// It is not safe for concurrent use.
	Archive struct {
		buf        *bytes.Buffer
		tw         *tar.Writer
		gz         *gzip.Writer
		compressed bool
		mtime      time.Time
		logger     *log.Logger
		entries    []Entry
		closed     bool
	}
)

// WithGzipLevel sets the gzip compression level (-1 for the default, 0-9).
// It has no effect on uncompressed archives.
func WithGzipLevel(level int) Option {
	return func(o *options) {
		o.gzipLevel = level
	}
}

// WithModTime stamps every entry (and the gzip header) with t instead of the
// file's own modification time and drops ownership information, so identical
// inputs produce identical bytes.
func WithModTime(t time.Time) Option {
	return func(o *options) {
		o.mtime = t
	}
}

// WithLogger sets the logger for archive diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Create opens a new archive over a fresh buffer. The buffer holds the
// authoritative output once the archive is closed.
func Create(compressed bool, opts ...Option) (*Archive, *bytes.Buffer) {
	o := options{
		gzipLevel: gzip.DefaultCompression,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&o)
	}

	buf := new(bytes.Buffer)
	a := &Archive{
		buf:        buf,
		compressed: compressed,
		mtime:      o.mtime,
		logger:     o.logger,
	}

	var sink io.Writer = buf
	if compressed {
		gz, err := gzip.NewWriterLevel(buf, o.gzipLevel)
		if err != nil {
			o.logger.Warn("invalid gzip level, using default", "level", o.gzipLevel, "error", err)
			gz = gzip.NewWriter(buf)
		}
		if !o.mtime.IsZero() {
			gz.ModTime = o.mtime
		}
		a.gz = gz
		sink = gz
	}
	a.tw = tar.NewWriter(sink)
	return a, buf
}

// Compressed reports whether the archive is gzip framed.
func (a *Archive) Compressed() bool { return a.compressed }

// Len returns the number of entries written so far.
func (a *Archive) Len() int { return len(a.entries) }

// Entries returns the entries written so far, in write order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Add writes path under its name relative to root. Regular files are stored
// with their contents; symbolic links are stored as links.
func (a *Archive) Add(path, root types.FilesystemPath) error {
	if a.closed {
		return ErrArchiveClosed
	}

	name, err := fspath.Rel(root, path)
	if err != nil {
		return &PathError{Path: path, Root: root}
	}

	info, err := os.Lstat(string(path))
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var link string
	switch {
	case info.Mode().IsRegular():
	case info.Mode()&fs.ModeSymlink != 0:
		if link, err = os.Readlink(string(path)); err != nil {
			return fmt.Errorf("failed to read link %s: %w", path, err)
		}
	default:
		return fmt.Errorf("cannot archive %s (%s): %w", path, info.Mode().Type(), ErrUnsupportedFileType)
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("failed to create header for %s: %w", path, err)
	}
	hdr.Name = name.String()
	if !a.mtime.IsZero() {
		hdr.ModTime = a.mtime
		hdr.Uid, hdr.Gid = 0, 0
		hdr.Uname, hdr.Gname = "", ""
	}

	if err := a.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}
	if hdr.Typeflag == tar.TypeReg {
		if err := a.copyContents(path, hdr.Size); err != nil {
			return err
		}
	}

	a.entries = append(a.entries, Entry{
		Path:     path,
		Name:     name,
		Mode:     info.Mode(),
		Size:     hdr.Size,
		Linkname: link,
	})
	a.logger.Debug("added archive entry", "name", name, "size", hdr.Size)
	return nil
}

func (a *Archive) copyContents(path types.FilesystemPath, size int64) (err error) {
	f, err := os.Open(string(path))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// The header already committed to size bytes.
	if _, err := io.CopyN(a.tw, f, size); err != nil {
		return fmt.Errorf("failed to write contents of %s: %w", path, err)
	}
	return nil
}

// AddAll adds every path of files in order. The first enumeration error is
// returned unchanged; the first add error is returned as is.
func (a *Archive) AddAll(files iter.Seq2[types.FilesystemPath, error], root types.FilesystemPath) error {
	for path, err := range files {
		if err != nil {
			return err
		}
		if err := a.Add(path, root); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the tar end-of-archive marker and the gzip trailer. Closing a
// closed archive is a no-op.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if err := a.tw.Close(); err != nil {
		if a.gz != nil {
			_ = a.gz.Close()
		}
		return fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if a.gz != nil {
		if err := a.gz.Close(); err != nil {
			return fmt.Errorf("failed to finalize gzip stream: %w", err)
		}
	}

	a.logger.Info("archive finalized", "entries", len(a.entries), "bytes", a.buf.Len(), "gzip", a.compressed)
	return nil
}

// Discard closes the archive without reporting flush errors and empties the
// buffer. It is meant for failure paths and may follow Close.
func (a *Archive) Discard() {
	if !a.closed {
		a.closed = true
		_ = a.tw.Close()
		if a.gz != nil {
			_ = a.gz.Close()
		}
	}
	a.buf.Reset()
}

// Reader returns a reader over the finalized archive bytes, positioned at
// the start.
func (a *Archive) Reader() (*bytes.Reader, error) {
	if !a.closed {
		return nil, ErrArchiveOpen
	}
	return bytes.NewReader(a.buf.Bytes()), nil
}
