// SPDX-License-Identifier: MPL-2.0

// Package config handles coil configuration using Viper with CUE as the file format.
//
// Configuration is read from the file given with --config, else from
// config.cue in the user configuration directory ($XDG_CONFIG_HOME/coil on
// Linux, ~/Library/Application Support/coil on macOS, %APPDATA%\coil on
// Windows), else from coil.cue in the working directory. A missing file means
// defaults. Values are validated against an embedded CUE schema
// (config_schema.cue) and may be overridden with COIL_* environment variables,
// e.g. COIL_GIT_TIMEOUT=30s.
package config
