// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"encoding/hex"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/zeebo/blake3"

	"github.com/invowk/coil/internal/gitfiles"
	"github.com/invowk/coil/internal/project"
	"github.com/invowk/coil/internal/tarball"
	"github.com/invowk/coil/internal/testutil"
	"github.com/invowk/coil/pkg/types"
)

const testMarker types.MarkerFileName = "coil-packager-test.marker"

// stubRunner answers every git invocation with a fixed result.
type stubRunner struct {
	result gitfiles.RunResult
	err    error
	calls  int
}

func (s *stubRunner) Run(context.Context, types.FilesystemPath, string, ...string) (gitfiles.RunResult, error) {
	s.calls++
	return s.result, s.err
}

func newPackager(t *testing.T, runner gitfiles.CommandRunner, opts ...Option) *Packager {
	t.Helper()
	all := []Option{WithMarker(testMarker)}
	if runner != nil {
		all = append(all, WithEnumerator(gitfiles.New(gitfiles.WithRunner(runner))))
	}
	p, err := New(append(all, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

// newGitFixture builds a repository with a.txt and sub/b.txt, plus an
// ignored c.log. The marker itself is excluded by the fixture.
func newGitFixture(t *testing.T) *testutil.GitProject {
	t.Helper()
	repo := testutil.NewGitProject(t, string(testMarker))
	repo.WriteFile(t, "a.txt", "alpha")
	repo.WriteFile(t, "sub/b.txt", "beta")
	repo.WriteFile(t, "c.log", "noise")
	repo.Exclude(t, "*.log")
	repo.Track(t, "a.txt", "sub/b.txt")
	return repo
}

func sortedNames(t *testing.T, res *Result) []string {
	t.Helper()
	names, err := tarball.Names(res.Buffer.Bytes(), res.Compressed)
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.String())
	}
	slices.Sort(out)
	return out
}

func TestPackage_EndToEnd(t *testing.T) {
	t.Parallel()

	repo := newGitFixture(t)
	p := newPackager(t, nil)

	for _, compressed := range []bool{false, true} {
		res, err := p.Package(context.Background(), Request{
			Start:      types.FilesystemPath(repo.Path("sub")),
			Compressed: compressed,
		})
		if err != nil {
			t.Fatalf("Package(compressed=%v) error = %v", compressed, err)
		}

		want := []string{"a.txt", "sub/b.txt"}
		if got := sortedNames(t, res); !slices.Equal(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
		if res.Entries != len(want) {
			t.Errorf("Entries = %d, want %d", res.Entries, len(want))
		}
		if string(res.Root.Dir()) != repo.Dir {
			t.Errorf("Root = %q, want %q", res.Root.Dir(), repo.Dir)
		}
		if res.Compressed != compressed {
			t.Errorf("Compressed = %v", res.Compressed)
		}

		sum := blake3.Sum256(res.Buffer.Bytes())
		if res.Digest != hex.EncodeToString(sum[:]) {
			t.Errorf("Digest = %q does not match the archive bytes", res.Digest)
		}

		data := res.Buffer.Bytes()
		if compressed {
			if data[0] != 0x1f || data[1] != 0x8b {
				t.Error("compressed archive lacks gzip magic")
			}
		} else if string(data[257:262]) != "ustar" {
			t.Error("archive lacks ustar magic")
		}
	}
}

func TestPackage_TrackedMarkerIsIncluded(t *testing.T) {
	t.Parallel()

	repo := newGitFixture(t)
	repo.Track(t, string(testMarker))
	p := newPackager(t, nil)

	res, err := p.Package(context.Background(), Request{Start: types.FilesystemPath(repo.Dir)})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	want := []string{"a.txt", string(testMarker), "sub/b.txt"}
	slices.Sort(want)
	if got := sortedNames(t, res); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestPackage_RootNotFound(t *testing.T) {
	t.Parallel()

	dir := testutil.ResolvedTempDir(t)
	runner := &stubRunner{}
	p := newPackager(t, runner)

	res, err := p.Package(context.Background(), Request{Start: types.FilesystemPath(dir)})
	if !errors.Is(err, project.ErrRootNotFound) {
		t.Fatalf("Package() error = %v, want ErrRootNotFound", err)
	}
	var nfErr *project.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Package() error type = %T, want *project.NotFoundError", err)
	}
	if res != nil {
		t.Errorf("Package() result = %+v, want nil", res)
	}
	if runner.calls != 0 {
		t.Errorf("git ran %d times after a failed root lookup", runner.calls)
	}

	buf, err := PackageProject(context.Background(), types.FilesystemPath(dir), false)
	if buf != nil || err == nil {
		t.Errorf("PackageProject() = (%v, %v), want nil buffer and an error", buf, err)
	}
}

func TestPackage_StageErrorsPassThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		runner *stubRunner
		want   error
	}{
		{
			name:   "git missing",
			runner: &stubRunner{err: &gitfiles.EnvironmentError{Tool: "git"}},
			want:   gitfiles.ErrToolNotFound,
		},
		{
			name:   "git failed",
			runner: &stubRunner{result: gitfiles.RunResult{ExitCode: 128, Stderr: []byte("fatal: not a git repository")}},
			want:   gitfiles.ErrProcessFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.ResolvedTempDir(t)
			testutil.MustWriteFile(t, filepath.Join(dir, string(testMarker)), "", 0o644)
			p := newPackager(t, tt.runner)

			res, err := p.Package(context.Background(), Request{Start: types.FilesystemPath(dir)})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Package() error = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("Package() result = %+v, want nil", res)
			}
			if tt.runner.calls != 1 {
				t.Errorf("git ran %d times, want exactly once", tt.runner.calls)
			}
		})
	}
}

func TestPackage_SkippedFilesReported(t *testing.T) {
	t.Parallel()

	dir := testutil.ResolvedTempDir(t)
	testutil.MustWriteFile(t, filepath.Join(dir, string(testMarker)), "", 0o644)
	testutil.MustWriteFile(t, filepath.Join(dir, "a.txt"), "alpha", 0o644)
	runner := &stubRunner{result: gitfiles.RunResult{Stdout: []byte("a.txt\x00deleted.txt\x00")}}
	p := newPackager(t, runner)

	res, err := p.Package(context.Background(), Request{Start: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if res.Entries != 1 {
		t.Errorf("Entries = %d, want 1", res.Entries)
	}
	if len(res.Skipped) != 1 || filepath.Base(string(res.Skipped[0])) != "deleted.txt" {
		t.Errorf("Skipped = %v", res.Skipped)
	}
}

func TestPackage_ReproducibleDigest(t *testing.T) {
	t.Parallel()

	repo := newGitFixture(t)
	stamp := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	p := newPackager(t, nil, WithArchiveOptions(tarball.WithModTime(stamp)))

	first, err := p.Package(context.Background(), Request{Start: types.FilesystemPath(repo.Dir), Compressed: true})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	second, err := p.Package(context.Background(), Request{Start: types.FilesystemPath(repo.Dir), Compressed: true})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if first.Digest != second.Digest {
		t.Errorf("digests differ: %s vs %s", first.Digest, second.Digest)
	}
}

func TestNew_InvalidMarker(t *testing.T) {
	t.Parallel()

	if _, err := New(WithMarker("a/b")); !errors.Is(err, types.ErrInvalidMarkerFileName) {
		t.Errorf("New() error = %v, want ErrInvalidMarkerFileName", err)
	}
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Marker() != types.DefaultMarkerFileName {
		t.Errorf("Marker() = %q, want %q", p.Marker(), types.DefaultMarkerFileName)
	}
}
