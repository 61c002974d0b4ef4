// Package paths resolves the configuration and data directories.
//
// Both directories default to hidden directories under the working
// directory, so each project folder gets its own board.
package paths

import (
	"os"
	"path/filepath"
)

// Directory names created under the working directory by default.
const (
	DefaultConfigDirName = ".kanban"
	DefaultDataDirName   = ".kanban-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "KANBAN_CONFIG_DIR"
	EnvDataDir   = "KANBAN_DATA_DIR"
)

// getwd is overridden in tests.
var getwd = os.Getwd

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > KANBAN_CONFIG_DIR > $(CWD)/.kanban.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDirName, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > data_dir from config.yaml > KANBAN_DATA_DIR > $(CWD)/.kanban-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDirName, flag, configValue, os.Getenv(EnvDataDir))
}

// resolve returns the first non-empty candidate as an absolute path, or
// defaultName under the working directory.
func resolve(defaultName string, candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
