// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/coil/pkg/types"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the complete coil configuration.
	Config struct {
		Project ProjectConfig `json:"project" mapstructure:"project"`
		Git     GitConfig     `json:"git" mapstructure:"git"`
		Archive ArchiveConfig `json:"archive" mapstructure:"archive"`
		Log     LogConfig     `json:"log" mapstructure:"log"`

		// Source is the file the configuration was read from; empty when
		// only defaults and the environment apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// ProjectConfig configures root discovery.
	ProjectConfig struct {
		Marker types.MarkerFileName `json:"marker" mapstructure:"marker"`
	}

	// GitConfig configures the git invocation.
	GitConfig struct {
		Binary  string `json:"binary" mapstructure:"binary"`
		Timeout string `json:"timeout" mapstructure:"timeout"`
	}

	// ArchiveConfig configures archive output.
	ArchiveConfig struct {
		Gzip      bool   `json:"gzip" mapstructure:"gzip"`
		GzipLevel int    `json:"gzip_level" mapstructure:"gzip_level"`
		MTime     string `json:"mtime" mapstructure:"mtime"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level string `json:"level" mapstructure:"level"`
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{Marker: types.DefaultMarkerFileName},
		Git:     GitConfig{Binary: "git", Timeout: "2m"},
		Archive: ArchiveConfig{GzipLevel: -1},
		Log:     LogConfig{Level: "info"},
	}
}

// GitTimeout parses Git.Timeout. Zero means no bound.
func (c *Config) GitTimeout() (time.Duration, error) {
	if c.Git.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Git.Timeout)
	if err != nil {
		return 0, fmt.Errorf("git.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("git.timeout: must not be negative, got %s", d)
	}
	return d, nil
}

// ArchiveModTime parses Archive.MTime. The zero time means file times are
// kept.
func (c *Config) ArchiveModTime() (time.Time, error) {
	if c.Archive.MTime == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.Archive.MTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("archive.mtime: %w", err)
	}
	return t, nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Validate checks the values that the schema cannot, including those that
// arrive through environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Project.Marker.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("project.marker: %w", err))
	}
	if c.Git.Binary == "" {
		errs = append(errs, errors.New("git.binary: must be non-empty"))
	}
	if _, err := c.GitTimeout(); err != nil {
		errs = append(errs, err)
	}
	if c.Archive.GzipLevel < -1 || c.Archive.GzipLevel > 9 {
		errs = append(errs, fmt.Errorf("archive.gzip_level: must be between -1 and 9, got %d", c.Archive.GzipLevel))
	}
	if _, err := c.ArchiveModTime(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
