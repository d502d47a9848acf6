// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/invowk/coil/pkg/fspath"
	"github.com/invowk/coil/pkg/types"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	got := fspath.Join(types.FilesystemPath("home"), types.FilesystemPath("user"))
	want := types.FilesystemPath(filepath.Join("home", "user"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestJoinStr_MultipleSegments(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("project"), "sub", "b.txt")
	want := types.FilesystemPath(filepath.Join("project", "sub", "b.txt"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	got := fspath.Dir(types.FilesystemPath("home/user/file.txt"))
	want := types.FilesystemPath(filepath.Dir("home/user/file.txt"))
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestAbs(t *testing.T) {
	t.Parallel()

	got, err := fspath.Abs(types.FilesystemPath("."))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	wantRaw, _ := filepath.Abs(".")
	if got != types.FilesystemPath(wantRaw) {
		t.Errorf("Abs() = %q, want %q", got, wantRaw)
	}
}

func TestResolve_FollowsSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := fspath.Resolve(types.FilesystemPath(link))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got != types.FilesystemPath(want) {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_MissingPath(t *testing.T) {
	t.Parallel()

	if _, err := fspath.Resolve(types.FilesystemPath(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Error("Resolve() error = nil for missing path")
	}
}

func TestResolvePartial(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	realDir := filepath.Join(dir, "real")
	if err := os.Mkdir(realDir, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	resolvedReal, err := filepath.EvalSymlinks(realDir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"existing", link, resolvedReal},
		{"missing tail", filepath.Join(link, "not", "yet"), filepath.Join(resolvedReal, "not", "yet")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := fspath.ResolvePartial(types.FilesystemPath(tt.in))
			if err != nil {
				t.Fatalf("ResolvePartial() error = %v", err)
			}
			if got != types.FilesystemPath(tt.want) {
				t.Errorf("ResolvePartial() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRoot(t *testing.T) {
	t.Parallel()

	root := types.FilesystemPath(filepath.VolumeName(os.TempDir()) + string(filepath.Separator))
	if !fspath.IsRoot(root) {
		t.Errorf("IsRoot(%q) = false", root)
	}
	if fspath.IsRoot(types.FilesystemPath(t.TempDir())) {
		t.Error("IsRoot() = true for temp dir")
	}
}

func TestRel(t *testing.T) {
	t.Parallel()

	base := types.FilesystemPath(filepath.Join(string(filepath.Separator), "srv", "project"))
	tests := []struct {
		name    string
		target  types.FilesystemPath
		want    types.ArchiveName
		wantErr bool
	}{
		{"top level", fspath.JoinStr(base, "a.txt"), "a.txt", false},
		{"nested uses slashes", fspath.JoinStr(base, "sub", "b.txt"), "sub/b.txt", false},
		{"dotdot prefixed name", fspath.JoinStr(base, "..data"), "..data", false},
		{"base itself", base, "", true},
		{"sibling", types.FilesystemPath(filepath.Join(string(filepath.Separator), "srv", "other", "a.txt")), "", true},
		{"prefix but not child", types.FilesystemPath(string(base) + "-old"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := fspath.Rel(base, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Rel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Rel() = %q, want %q", got, tt.want)
			}
			if fspath.Within(base, tt.target) == tt.wantErr {
				t.Errorf("Within() = %v, want %v", !tt.wantErr, tt.wantErr)
			}
		})
	}
}
