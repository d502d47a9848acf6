// SPDX-License-Identifier: MPL-2.0

package gitfiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/coil/internal/project"
	"github.com/invowk/coil/pkg/fspath"
	"github.com/invowk/coil/pkg/types"
)

// DefaultBinary is the version-control executable used when none is configured.
const DefaultBinary = "git"

// lsFilesArgs selects indexed files plus untracked files that survive the
// standard ignore sources (.gitignore, .git/info/exclude, core.excludesFile).
var lsFilesArgs = []string{"ls-files", "--cached", "--others", "--exclude-standard", "-z"}

type (
	// Enumerator lists project files through git.
	Enumerator struct {
		runner  CommandRunner
		binary  string
		timeout time.Duration
		logger  *log.Logger
	}

	// Option configures an Enumerator.
	Option func(*Enumerator)

	// Listing is a finite, single-pass sequence of the files of one project.
	// git runs when iteration starts; iterating a second time yields
	// ErrSequenceConsumed instead of running git again.
	Listing struct {
		enumerator *Enumerator
		ctx        context.Context
		root       project.Root

		consumed atomic.Bool

		mu      sync.Mutex
		skipped []types.FilesystemPath
	}
)

// WithRunner replaces the process runner.
func WithRunner(r CommandRunner) Option {
	return func(e *Enumerator) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithBinary sets the git executable name or path.
func WithBinary(binary string) Option {
	return func(e *Enumerator) {
		if binary != "" {
			e.binary = binary
		}
	}
}

// WithTimeout bounds how long git may run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Enumerator) {
		e.timeout = d
	}
}

// WithLogger sets the logger for enumeration diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(e *Enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Enumerator backed by an ExecRunner and the git on PATH.
func New(opts ...Option) *Enumerator {
	e := &Enumerator{
		runner: NewExecRunner(),
		binary: DefaultBinary,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// List returns the lazy listing of files under root. Nothing runs until the
// listing is iterated.
func (e *Enumerator) List(ctx context.Context, root project.Root) *Listing {
	return &Listing{enumerator: e, ctx: ctx, root: root}
}

// Collect runs one listing to completion and returns the files in git order.
func (e *Enumerator) Collect(ctx context.Context, root project.Root) ([]types.FilesystemPath, error) {
	var files []types.FilesystemPath
	for path, err := range e.List(ctx, root).All() {
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// Root returns the project root the listing enumerates.
func (l *Listing) Root() project.Root { return l.root }

// Skipped returns the paths git reported that no longer exist on disk.
// It is complete once iteration has finished.
func (l *Listing) Skipped() []types.FilesystemPath {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.FilesystemPath, len(l.skipped))
	copy(out, l.skipped)
	return out
}

// All returns the sequence of absolute file paths. Each yielded path exists
// and lies under the root. An error is yielded at most once, as the last
// element.
func (l *Listing) All() iter.Seq2[types.FilesystemPath, error] {
	return func(yield func(types.FilesystemPath, error) bool) {
		if !l.consumed.CompareAndSwap(false, true) {
			yield("", ErrSequenceConsumed)
			return
		}

		out, err := l.enumerator.lsFiles(l.ctx, l.root)
		if err != nil {
			yield("", err)
			return
		}

		for rel := range records(out) {
			path, keep, err := l.resolve(rel)
			if err != nil {
				yield("", err)
				return
			}
			if !keep {
				continue
			}
			if !yield(path, nil) {
				return
			}
		}
	}
}

// resolve turns one git record into an absolute path and decides whether it
// belongs in the listing.
func (l *Listing) resolve(rel string) (types.FilesystemPath, bool, error) {
	logger := l.enumerator.logger
	dir := l.root.Dir()
	path := fspath.JoinStr(dir, filepath.FromSlash(rel))

	if !fspath.Within(dir, path) {
		logger.Warn("ignoring path outside project root", "path", rel, "root", dir)
		return "", false, nil
	}

	if _, err := os.Stat(string(path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("skipping file missing from working tree", "path", rel)
			l.mu.Lock()
			l.skipped = append(l.skipped, path)
			l.mu.Unlock()
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	info, err := os.Lstat(string(path))
	if err != nil {
		return "", false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		// Nested repositories and submodules are listed as directories.
		logger.Debug("skipping directory entry", "path", rel)
		return "", false, nil
	}
	return path, true, nil
}

// lsFiles runs git in the root directory and returns its raw stdout.
func (e *Enumerator) lsFiles(ctx context.Context, root project.Root) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	command := append([]string{e.binary}, lsFilesArgs...)
	e.logger.Debug("listing project files", "dir", root.Dir(), "command", command)

	res, err := e.runner.Run(ctx, root.Dir(), e.binary, lsFilesArgs...)
	if err != nil {
		var envErr *EnvironmentError
		if errors.As(err, &envErr) {
			return nil, err
		}
		return nil, &ProcessError{
			Command:  command,
			Dir:      root.Dir(),
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
			Cause:    err,
		}
	}
	if !res.ExitCode.IsSuccess() {
		return nil, &ProcessError{
			Command:  command,
			Dir:      root.Dir(),
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
		}
	}
	return res.Stdout, nil
}

// records splits ls-files output into non-blank records. NUL-separated
// output (-z) is preferred; newline-separated output is accepted too.
func records(out []byte) iter.Seq[string] {
	sep := byte('\n')
	if bytes.IndexByte(out, 0) >= 0 {
		sep = 0
	}
	return func(yield func(string) bool) {
		for len(out) > 0 {
			var rec []byte
			if i := bytes.IndexByte(out, sep); i >= 0 {
				rec, out = out[:i], out[i+1:]
			} else {
				rec, out = out, nil
			}
			if sep == '\n' {
				rec = bytes.TrimSuffix(rec, []byte{'\r'})
			}
			if len(bytes.TrimSpace(rec)) == 0 {
				continue
			}
			if !yield(string(rec)) {
				return
			}
		}
	}
}
