// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/invowk/coil/internal/issue"
	"github.com/invowk/coil/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "coil"
	// ConfigFileName is the name of the user config file.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is the per-directory config file name.
	LocalConfigFileName = "coil.cue"
	// EnvPrefix prefixes environment overrides, e.g. COIL_GIT_BINARY.
	EnvPrefix = "COIL"
)

//go:embed config_schema.cue
var configSchema string

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the user config directory when set.
	ConfigDirPath string
	// WorkDir is searched for coil.cue when no user config exists. Empty
	// means the process working directory.
	WorkDir string
}

// ConfigDir returns the coil configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath(opts LoadOptions) (string, error) {
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Resolve returns the config file Load would read, or "" when none exists.
func Resolve(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'coil config init' to write a default configuration").
				Wrap(fmt.Errorf("config file not found: %s: %w", opts.ConfigFilePath, fs.ErrNotExist)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	userPath, err := UserConfigPath(opts)
	if err != nil {
		return "", err
	}
	if fileExists(userPath) {
		return userPath, nil
	}

	localPath := LocalConfigFileName
	if opts.WorkDir != "" {
		localPath = filepath.Join(opts.WorkDir, LocalConfigFileName)
	}
	if fileExists(localPath) {
		return localPath, nil
	}
	return "", nil
}

// Load resolves, reads and validates the configuration.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := newViper()

	path, err := Resolve(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'coil config show' to see the expected layout").
				Wrap(err).
				BuildError()
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		ec := issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check COIL_* environment variables for invalid values")
		if path != "" {
			ec = ec.WithResource(path)
		}
		return nil, ec.Wrap(err).BuildError()
	}
	return cfg, nil
}

// newViper returns a Viper instance with every key defaulted and bound to
// its COIL_ environment variable.
func newViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("project.marker", string(defaults.Project.Marker))
	v.SetDefault("git.binary", defaults.Git.Binary)
	v.SetDefault("git.timeout", defaults.Git.Timeout)
	v.SetDefault("archive.gzip", defaults.Archive.Gzip)
	v.SetDefault("archive.gzip_level", defaults.Archive.GzipLevel)
	v.SetDefault("archive.mtime", defaults.Archive.MTime)
	v.SetDefault("log.level", defaults.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	values, err := cueutil.DecodeMap(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone unless force is set; the
// returned bool reports whether a file was written.
func WriteDefault(path string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to check config file: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders cfg as a config file accepted by Load.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// coil configuration file\n\n")

	sb.WriteString("project: {\n")
	fmt.Fprintf(&sb, "\tmarker: %q\n", cfg.Project.Marker)
	sb.WriteString("}\n")

	sb.WriteString("\ngit: {\n")
	fmt.Fprintf(&sb, "\tbinary:  %q\n", cfg.Git.Binary)
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.Git.Timeout)
	sb.WriteString("}\n")

	sb.WriteString("\narchive: {\n")
	fmt.Fprintf(&sb, "\tgzip:       %v\n", cfg.Archive.Gzip)
	fmt.Fprintf(&sb, "\tgzip_level: %d\n", cfg.Archive.GzipLevel)
	if cfg.Archive.MTime != "" {
		fmt.Fprintf(&sb, "\tmtime:      %q\n", cfg.Archive.MTime)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}
