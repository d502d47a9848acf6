// SPDX-License-Identifier: MPL-2.0

package gitfiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/coil/pkg/types"
)

var (
	// ErrToolNotFound is the sentinel error wrapped by EnvironmentError.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrProcessFailed is the sentinel error wrapped by ProcessError.
	ErrProcessFailed = errors.New("external tool failed")

	// ErrSequenceConsumed is yielded when a Listing is iterated a second time.
	ErrSequenceConsumed = errors.New("file listing already consumed")
)

type (
	// EnvironmentError is returned when the version-control tool cannot be
	// located or executed.
	EnvironmentError struct {
		Tool  string
		Cause error
	}

	// ProcessError is returned when the version-control tool ran but did not
	// succeed. ExitCode is -1 when the process was interrupted.
	ProcessError struct {
		Command  []string
		Dir      types.FilesystemPath
		ExitCode types.ExitCode
		Stderr   string
		Cause    error
	}
)

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	msg := fmt.Sprintf("%s command not found; ensure %s is installed and in your PATH", e.Tool, e.Tool)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both ErrToolNotFound and the underlying lookup error.
func (e *EnvironmentError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrToolNotFound}
	}
	return []error{ErrToolNotFound, e.Cause}
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	var msg strings.Builder
	msg.WriteString(strings.Join(e.Command, " "))
	if e.ExitCode.IsSignaled() {
		msg.WriteString(" was interrupted")
	} else {
		fmt.Fprintf(&msg, " exited with status %d", e.ExitCode)
	}
	if e.Dir != "" {
		fmt.Fprintf(&msg, " in %s", e.Dir)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg.WriteString(": ")
		msg.WriteString(stderr)
	} else if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap exposes ErrProcessFailed and, when set, the interrupting cause
// (for example context.DeadlineExceeded).
func (e *ProcessError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrProcessFailed}
	}
	return []error{ErrProcessFailed, e.Cause}
}
