// SPDX-License-Identifier: MPL-2.0

package gitfiles

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/coil/pkg/types"
)

func identityLookPath(file string) (string, error) { return file, nil }

func TestExecRunner_CapturesOutput(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{stdout: "a.txt" + nulToken, stderr: "note"}
	runner := NewExecRunner(
		WithExecCommand(recorder.contextCommandFunc(t)),
		WithLookPath(identityLookPath),
	)

	res, err := runner.Run(context.Background(), types.FilesystemPath(t.TempDir()), "git", "ls-files", "-z")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := string(res.Stdout); got != "a.txt\x00" {
		t.Errorf("Stdout = %q, want %q", got, "a.txt\x00")
	}
	if got := string(res.Stderr); got != "note" {
		t.Errorf("Stderr = %q, want %q", got, "note")
	}
	if !res.ExitCode.IsSuccess() {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}

	inv := recorder.lastInvocation(t)
	if inv.name != "git" {
		t.Errorf("command name = %q, want git", inv.name)
	}
	if !slices.Equal(inv.args, []string{"ls-files", "-z"}) {
		t.Errorf("command args = %v", inv.args)
	}
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{exitCode: 128, stderr: "fatal: not a git repository"}
	runner := NewExecRunner(
		WithExecCommand(recorder.contextCommandFunc(t)),
		WithLookPath(identityLookPath),
	)

	res, err := runner.Run(context.Background(), types.FilesystemPath(t.TempDir()), "git", "ls-files")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 128 {
		t.Errorf("ExitCode = %d, want 128", res.ExitCode)
	}
	if !strings.Contains(string(res.Stderr), "not a git repository") {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestExecRunner_MissingTool(t *testing.T) {
	t.Parallel()

	runner := NewExecRunner(WithLookPath(func(file string) (string, error) {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}))

	_, err := runner.Run(context.Background(), types.FilesystemPath(t.TempDir()), "git", "ls-files")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("Run() error = %v, want ErrToolNotFound", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Run() error should also wrap exec.ErrNotFound, got %v", err)
	}

	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Fatalf("Run() error type = %T, want *EnvironmentError", err)
	}
	if envErr.Tool != "git" {
		t.Errorf("Tool = %q, want git", envErr.Tool)
	}
}

func TestExecRunner_CanceledContext(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{}
	runner := NewExecRunner(
		WithExecCommand(func(ctx context.Context, name string, args ...string) *exec.Cmd {
			cmd := recorder.contextCommandFunc(t)(ctx, name, args...)
			// A failed start stands in for a killed process.
			cmd.Path = "/nonexistent/coil-helper"
			return cmd
		}),
		WithLookPath(identityLookPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := runner.Run(ctx, types.FilesystemPath(t.TempDir()), "git", "ls-files")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if !res.ExitCode.IsSignaled() {
		t.Errorf("ExitCode = %d, want a signaled exit code", res.ExitCode)
	}
}

func TestEnvironmentError_Message(t *testing.T) {
	t.Parallel()

	err := &EnvironmentError{Tool: "git"}
	msg := err.Error()
	if !strings.Contains(msg, "git command not found") {
		t.Errorf("Error() = %q", msg)
	}
	if !errors.Is(err, ErrToolNotFound) {
		t.Error("EnvironmentError should wrap ErrToolNotFound")
	}
}

func TestProcessError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ProcessError
		contains []string
	}{
		{
			name: "exit status with stderr",
			err: &ProcessError{
				Command:  []string{"git", "ls-files"},
				Dir:      "/work",
				ExitCode: 128,
				Stderr:   "fatal: not a git repository\n",
			},
			contains: []string{"git ls-files", "exited with status 128", "/work", "fatal: not a git repository"},
		},
		{
			name: "interrupted with cause",
			err: &ProcessError{
				Command:  []string{"git", "ls-files"},
				Dir:      "/work",
				ExitCode: -1,
				Cause:    context.DeadlineExceeded,
			},
			contains: []string{"git ls-files", "was interrupted", context.DeadlineExceeded.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
			if !errors.Is(tt.err, ErrProcessFailed) {
				t.Error("ProcessError should wrap ErrProcessFailed")
			}
		})
	}
}
