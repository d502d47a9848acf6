// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/coil/internal/config"
	"github.com/invowk/coil/internal/gitfiles"
	"github.com/invowk/coil/internal/issue"
	"github.com/invowk/coil/internal/project"
	"github.com/invowk/coil/internal/tarball"
)

// classifyError maps a failure from one of the pipeline stages to an
// actionable error tagged with its issue catalog entry. Errors that are
// already actionable keep their context; the caller's value is never
// modified.
func classifyError(operation string, err error) *issue.ActionableError {
	var existing *issue.ActionableError
	if errors.As(err, &existing) {
		if existing.Issue != 0 || !errors.Is(err, config.ErrInvalidConfig) {
			return existing
		}
		tagged := *existing
		tagged.Issue = issue.ConfigLoadFailedId
		return &tagged
	}

	ae := issue.WrapWithOperation(err, operation)

	var notFound *project.NotFoundError
	var envErr *gitfiles.EnvironmentError
	var procErr *gitfiles.ProcessError
	var pathErr *tarball.PathError

	switch {
	case errors.As(err, &notFound):
		ae.Issue = issue.ProjectRootNotFoundId
		ae.Suggestions = []string{
			fmt.Sprintf("Create a %s file in the project root", notFound.Marker),
			"Run coil from inside the project or pass its directory as an argument",
			"Set project.marker in the config file if the project uses another descriptor",
		}
	case errors.As(err, &envErr):
		ae.Issue = issue.GitNotFoundId
		ae.Suggestions = []string{
			"Install git and make sure it is on your PATH",
			"Set git.binary in the config file or COIL_GIT_BINARY",
		}
	case errors.As(err, &procErr) && errors.Is(err, context.DeadlineExceeded):
		ae.Issue = issue.GitTimeoutId
		ae.Suggestions = []string{"Raise git.timeout in the config file, or set it to \"0\" to disable the limit"}
	case errors.As(err, &procErr):
		ae.Issue = issue.NotAGitRepositoryId
		ae.Suggestions = []string{"Make sure the project root is inside a git repository (git init)"}
	case errors.As(err, &pathErr):
		ae.Issue = issue.PathOutsideRootId
		ae.Suggestions = []string{"Re-run with --verbose and report the output"}
	case errors.Is(err, config.ErrInvalidConfig):
		ae.Issue = issue.ConfigLoadFailedId
		ae.Suggestions = []string{"Run 'coil config path' to see which file was loaded"}
	}

	return ae
}

// fail renders err on stderr and converts it into an ExitError so that the
// error is not printed a second time by the command framework.
func (a *App) fail(cmd *cobra.Command, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 130, Err: err}
	}

	ae := classifyError(operation, err)
	renderError(a.stderr, ae, a.verbose, a.isTerminal(a.stderr))

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: ae}
}

// renderError prints the styled error and, in verbose mode, the catalog
// guidance for its issue.
func renderError(w io.Writer, ae *issue.ActionableError, verbose, styled bool) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(ae, verbose))

	if !verbose || ae.Issue == 0 {
		return
	}
	entry := issue.Get(ae.Issue)
	if entry == nil {
		return
	}
	style := "notty"
	if styled {
		style = "dark"
	}
	if rendered, err := entry.Render(style); err == nil {
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
