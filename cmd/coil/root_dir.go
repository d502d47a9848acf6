// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootDirCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "root [start]",
		Short: "Print the project root",
		Long: `Print the nearest directory at or above [start] (default: the current
directory) that contains the project marker file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locator, err := app.newLocator()
			if err != nil {
				return app.fail(cmd, "locate project root", err)
			}
			root, err := locator.Find(startArg(args))
			if err != nil {
				return app.fail(cmd, "locate project root", err)
			}
			fmt.Fprintln(app.stdout, root)
			return nil
		},
	}
}
