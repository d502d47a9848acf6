// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
)

// GitProject is a temporary project directory that is also a git repository.
type GitProject struct {
	// Dir is the resolved project directory (the repository work tree).
	Dir string

	repo *git.Repository
}

// RequireGit skips the test when no git binary is available on PATH.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// NewGitProject creates a repository in a fresh temp directory and writes
// the marker file into it. The marker is excluded through .git/info/exclude
// so that it only shows up in listings when a test tracks it explicitly.
func NewGitProject(t testing.TB, marker string) *GitProject {
	t.Helper()
	RequireGit(t)

	dir := ResolvedTempDir(t)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}

	p := &GitProject{Dir: dir, repo: repo}
	p.WriteFile(t, marker, "[project]\nname = \"fixture\"\n")
	p.Exclude(t, marker)
	return p
}

// Path returns the absolute path of a slash-separated project-relative name.
func (p *GitProject) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// WriteFile writes a project-relative file.
func (p *GitProject) WriteFile(t testing.TB, rel, content string) {
	t.Helper()
	MustWriteFile(t, p.Path(rel), content, 0o644)
}

// Track stages the given existing files in the index.
func (p *GitProject) Track(t testing.TB, rels ...string) {
	t.Helper()
	wt, err := p.repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	for _, rel := range rels {
		if _, err := wt.Add(rel); err != nil {
			t.Fatalf("failed to stage %s: %v", rel, err)
		}
	}
}

// Exclude appends ignore patterns to .git/info/exclude, which git applies
// under --exclude-standard just like .gitignore.
func (p *GitProject) Exclude(t testing.TB, patterns ...string) {
	t.Helper()
	path := filepath.Join(p.Dir, ".git", "info", "exclude")
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("failed to open exclude file: %v", err)
	}
	defer MustClose(t, f)
	if _, err := f.WriteString(strings.Join(patterns, "\n") + "\n"); err != nil {
		t.Fatalf("failed to write exclude file: %v", err)
	}
}

// Remove deletes a project-relative file from the work tree only, leaving
// the index untouched.
func (p *GitProject) Remove(t testing.TB, rel string) {
	t.Helper()
	if err := os.Remove(p.Path(rel)); err != nil {
		t.Fatalf("failed to remove %s: %v", rel, err)
	}
}
