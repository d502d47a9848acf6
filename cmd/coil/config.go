// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/coil/internal/config"
)

// newConfigCommand creates the `coil config` command tree. Its subcommands
// must work while the configuration is broken, so the root pre-run hook that
// loads it is replaced here.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage coil configuration",
		Long: `Manage coil configuration.

Configuration is read from the first of:
  - the file given with --config
  - $XDG_CONFIG_HOME/coil/config.cue (~/.config/coil/config.cue)
  - ./coil.cue

Every key can be overridden from the environment, e.g. COIL_GIT_TIMEOUT=30s.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.logger = app.newLogger()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(cmd.Context()); err != nil {
				return app.fail(cmd, "load configuration", err)
			}
			source := SubtitleStyle.Render("(defaults)")
			if app.cfg.Source != "" {
				source = CmdStyle.Render(app.cfg.Source)
			}
			fmt.Fprintf(app.stderr, "%s %s\n", TitleStyle.Render("Config file:"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	opts := config.LoadOptions{ConfigFilePath: app.configPath}
	active, err := config.Resolve(opts)
	if err != nil {
		return app.fail(cmd, "resolve configuration path", err)
	}
	if active != "" {
		fmt.Fprintln(app.stdout, active)
		return nil
	}

	userPath, err := config.UserConfigPath(opts)
	if err != nil {
		return app.fail(cmd, "resolve configuration path", err)
	}
	fmt.Fprintln(app.stdout, userPath)
	fmt.Fprintln(app.stderr, SubtitleStyle.Render("(file does not exist; defaults apply)"))
	return nil
}

func initConfig(cmd *cobra.Command, app *App, force bool) error {
	path := app.configPath
	if path == "" {
		var err error
		if path, err = config.UserConfigPath(config.LoadOptions{}); err != nil {
			return app.fail(cmd, "create configuration", err)
		}
	}

	written, err := config.WriteDefault(path, force)
	if err != nil {
		return app.fail(cmd, "create configuration", err)
	}
	if !written {
		fmt.Fprintf(app.stderr, "%s Configuration already exists at %s (use --force to overwrite)\n",
			WarningStyle.Render("!"), CmdStyle.Render(path))
		return nil
	}
	fmt.Fprintf(app.stderr, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}
