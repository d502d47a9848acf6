// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/zeebo/blake3"

	"github.com/invowk/coil/internal/gitfiles"
	"github.com/invowk/coil/internal/project"
	"github.com/invowk/coil/internal/tarball"
	"github.com/invowk/coil/pkg/types"
)

type (
	// Request describes one packaging call.
	Request struct {
		// Start is the directory the root search begins at. Empty means the
		// process working directory.
		Start types.FilesystemPath
		// Compressed selects gzip framing.
		Compressed bool
	}

	// Result is a finalized archive together with what went into it.
	Result struct {
		Root       project.Root
		Buffer     *bytes.Buffer
		Entries    int
		Skipped    []types.FilesystemPath
		Compressed bool
		// Digest is the hex BLAKE3-256 digest of the archive bytes.
		Digest string
	}

	// Option configures a Packager.
	Option func(*Packager)

	// Packager composes the root locator, the file enumerator and the
	// archive writer.
	Packager struct {
		marker      types.MarkerFileName
		enumerator  *gitfiles.Enumerator
		archiveOpts []tarball.Option
		logger      *log.Logger
	}
)

// WithMarker sets the file name that identifies the project root.
func WithMarker(marker types.MarkerFileName) Option {
	return func(p *Packager) {
		p.marker = marker
	}
}

// WithEnumerator replaces the git file enumerator.
func WithEnumerator(e *gitfiles.Enumerator) Option {
	return func(p *Packager) {
		if e != nil {
			p.enumerator = e
		}
	}
}

// WithArchiveOptions passes options through to every archive created.
func WithArchiveOptions(opts ...tarball.Option) Option {
	return func(p *Packager) {
		p.archiveOpts = append(p.archiveOpts, opts...)
	}
}

// WithLogger sets the logger used by the packager, its default enumerator
// and its archives.
func WithLogger(logger *log.Logger) Option {
	return func(p *Packager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Packager. It fails only when the configured marker is not a
// valid file name.
func New(opts ...Option) (*Packager, error) {
	p := &Packager{
		marker: types.DefaultMarkerFileName,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.marker.Validate(); err != nil {
		return nil, err
	}
	if p.enumerator == nil {
		p.enumerator = gitfiles.New(gitfiles.WithLogger(p.logger))
	}
	return p, nil
}

// Marker returns the marker file name used to locate roots.
func (p *Packager) Marker() types.MarkerFileName { return p.marker }

// Package locates the project containing req.Start, archives every file git
// reports for it and returns the finalized archive. Stage errors are returned
// unchanged, so errors.Is and errors.As work on the typed errors of the
// project, gitfiles and tarball packages. On error no buffer is returned.
func (p *Packager) Package(ctx context.Context, req Request) (*Result, error) {
	locator, err := project.NewLocator(p.marker, project.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	root, err := locator.Find(req.Start)
	if err != nil {
		return nil, err
	}

	opts := append([]tarball.Option{tarball.WithLogger(p.logger)}, p.archiveOpts...)
	archive, buf := tarball.Create(req.Compressed, opts...)
	finalized := false
	defer func() {
		if !finalized {
			archive.Discard()
		}
	}()

	listing := p.enumerator.List(ctx, root)
	if err := archive.AddAll(listing.All(), root.Dir()); err != nil {
		return nil, err
	}
	if err := archive.Close(); err != nil {
		return nil, err
	}
	finalized = true

	sum := blake3.Sum256(buf.Bytes())
	res := &Result{
		Root:       root,
		Buffer:     buf,
		Entries:    archive.Len(),
		Skipped:    listing.Skipped(),
		Compressed: req.Compressed,
		Digest:     hex.EncodeToString(sum[:]),
	}
	p.logger.Debug("packaged project", "root", root, "entries", res.Entries, "skipped", len(res.Skipped), "digest", res.Digest)
	return res, nil
}

// PackageProject packages the project containing start with default
// settings and returns the archive bytes.
func PackageProject(ctx context.Context, start types.FilesystemPath, compressed bool) (*bytes.Buffer, error) {
	p, err := New()
	if err != nil {
		return nil, fmt.Errorf("failed to create packager: %w", err)
	}
	res, err := p.Package(ctx, Request{Start: start, Compressed: compressed})
	if err != nil {
		return nil, err
	}
	return res.Buffer, nil
}
