// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/coil/pkg/fspath"
)

func newFilesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "files [start]",
		Short: "List the files that would be packaged",
		Long: `List the files that would be packaged for the project containing [start],
one per line, relative to the project root and in git's order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd, app, args)
		},
	}
}

func runFiles(cmd *cobra.Command, app *App, args []string) error {
	locator, err := app.newLocator()
	if err != nil {
		return app.fail(cmd, "locate project root", err)
	}
	root, err := locator.Find(startArg(args))
	if err != nil {
		return app.fail(cmd, "locate project root", err)
	}
	enumerator, err := app.newEnumerator()
	if err != nil {
		return app.fail(cmd, "list project files", err)
	}

	listing := enumerator.List(cmd.Context(), root)
	for path, err := range listing.All() {
		if err != nil {
			return app.fail(cmd, "list project files", err)
		}
		name, err := fspath.Rel(root.Dir(), path)
		if err != nil {
			return app.fail(cmd, "list project files", err)
		}
		fmt.Fprintln(app.stdout, name)
	}

	if skipped := listing.Skipped(); len(skipped) > 0 {
		app.logger.Warn("some listed files no longer exist", "count", len(skipped))
	}
	return nil
}
