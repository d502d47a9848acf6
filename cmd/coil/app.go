// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/invowk/coil/internal/config"
	"github.com/invowk/coil/internal/gitfiles"
	"github.com/invowk/coil/internal/packager"
	"github.com/invowk/coil/internal/project"
	"github.com/invowk/coil/internal/tarball"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App reference and builds
	// the locator, enumerator and packager through it.
	App struct {
		Config ConfigProvider
		Runner gitfiles.CommandRunner

		stdout     io.Writer
		stderr     io.Writer
		isTerminal func(io.Writer) bool

		// Set per invocation by the root command's pre-run hook.
		verbose    bool
		configPath string
		cfg        *config.Config
		logger     *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Runner replaces the process runner used to invoke git.
		Runner     gitfiles.CommandRunner
		Stdout     io.Writer
		Stderr     io.Writer
		IsTerminal func(io.Writer) bool
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Runner:     deps.Runner,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		isTerminal: deps.IsTerminal,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.isTerminal == nil {
		app.isTerminal = isTerminalWriter
	}
	app.cfg = config.DefaultConfig()
	app.logger = log.New(io.Discard)
	return app
}

// isTerminalWriter reports whether w is a file attached to a terminal.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// loadConfig loads the configuration for this invocation and rebuilds the
// logger from it.
func (a *App) loadConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = a.newLogger()
	return nil
}

// newLogger builds the stderr logger. --verbose forces debug level; otherwise
// log.level from the configuration applies.
func (a *App) newLogger() *log.Logger {
	level, err := a.cfg.LogLevel()
	if err != nil {
		level = log.InfoLevel
	}
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "coil",
		Level:  level,
	})
}

func (a *App) newLocator() (*project.Locator, error) {
	return project.NewLocator(a.cfg.Project.Marker, project.WithLogger(a.logger))
}

func (a *App) newEnumerator() (*gitfiles.Enumerator, error) {
	timeout, err := a.cfg.GitTimeout()
	if err != nil {
		return nil, err
	}
	opts := []gitfiles.Option{
		gitfiles.WithBinary(a.cfg.Git.Binary),
		gitfiles.WithTimeout(timeout),
		gitfiles.WithLogger(a.logger),
	}
	if a.Runner != nil {
		opts = append(opts, gitfiles.WithRunner(a.Runner))
	}
	return gitfiles.New(opts...), nil
}

func (a *App) newPackager() (*packager.Packager, error) {
	enumerator, err := a.newEnumerator()
	if err != nil {
		return nil, err
	}
	archiveOpts := []tarball.Option{
		tarball.WithGzipLevel(a.cfg.Archive.GzipLevel),
		tarball.WithLogger(a.logger),
	}
	mtime, err := a.cfg.ArchiveModTime()
	if err != nil {
		return nil, err
	}
	if !mtime.IsZero() {
		archiveOpts = append(archiveOpts, tarball.WithModTime(mtime))
	}

	p, err := packager.New(
		packager.WithMarker(a.cfg.Project.Marker),
		packager.WithEnumerator(enumerator),
		packager.WithArchiveOptions(archiveOpts...),
		packager.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create packager: %w", err)
	}
	return p, nil
}
