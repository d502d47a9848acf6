// SPDX-License-Identifier: MPL-2.0

package gitfiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/invowk/coil/pkg/types"
)

type (
	// RunResult is the captured outcome of a finished process.
	RunResult struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode types.ExitCode
	}

	// CommandRunner runs a command in a directory and captures its output.
	// A non-zero exit status is reported through RunResult.ExitCode, not as an
	// error; errors are reserved for processes that could not be started or
	// were interrupted.
	CommandRunner interface {
		Run(ctx context.Context, dir types.FilesystemPath, name string, args ...string) (RunResult, error)
	}

	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// LookPathFunc resolves an executable name to a path, like exec.LookPath.
	LookPathFunc func(file string) (string, error)

	// ExecRunnerOption configures an ExecRunner.
	ExecRunnerOption func(*ExecRunner)

	// ExecRunner is the os/exec backed CommandRunner.
	ExecRunner struct {
		execCommand ExecCommandFunc
		lookPath    LookPathFunc
	}
)

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.execCommand = fn
	}
}

// WithLookPath sets a custom executable lookup for testing.
func WithLookPath(fn LookPathFunc) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.lookPath = fn
	}
}

// NewExecRunner creates an ExecRunner using exec.CommandContext and
// exec.LookPath unless overridden.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{
		execCommand: exec.CommandContext,
		lookPath:    exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, dir types.FilesystemPath, name string, args ...string) (RunResult, error) {
	binary, err := r.lookPath(name)
	if err != nil {
		return RunResult{}, &EnvironmentError{Tool: name, Cause: err}
	}

	cmd := r.execCommand(ctx, binary, args...)
	cmd.Dir = string(dir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := RunResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if runErr == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("command %s interrupted: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = types.ExitCode(exitErr.ExitCode())
		return result, nil
	}

	if errors.Is(runErr, exec.ErrNotFound) {
		return result, &EnvironmentError{Tool: name, Cause: runErr}
	}
	return result, fmt.Errorf("command %s %v failed to start: %w", name, args, runErr)
}
