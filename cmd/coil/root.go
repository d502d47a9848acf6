// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for coil.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/coil/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the coil command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coil",
		Short: "Package a project's git-visible files into a tar archive",
		Long: TitleStyle.Render("coil") + SubtitleStyle.Render(" - package a project's git-visible files") + `

coil finds the project root by walking up to the nearest marker file
(pyproject.toml by default), asks git which files belong to the project,
and writes them into a tar or tar.gz archive.

` + SubtitleStyle.Render("Examples:") + `
  coil root                  Print the project root
  coil files                 List the files that would be packaged
  coil pack -o app.tar.gz    Write a gzip-compressed archive
  coil config show           Show the effective configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(cmd.Context()); err != nil {
				return app.fail(cmd, "load configuration", err)
			}
			return nil
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/coil/config.cue, then ./coil.cue)")

	rootCmd.AddCommand(newPackCommand(app))
	rootCmd.AddCommand(newFilesCommand(app))
	rootCmd.AddCommand(newRootDirCommand(app))
	rootCmd.AddCommand(newWidgetCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Run executes the command tree for app and returns the process exit code.
func Run(ctx context.Context, app *App) types.ExitCode {
	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		ctx,
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// Execute runs coil with the process arguments. It is called by main.main().
func Execute() {
	if code := Run(context.Background(), NewApp(Dependencies{})); !code.IsSuccess() {
		os.Exit(int(code))
	}
}
