// Package config resolves where the application keeps its data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DataDir returns the directory where the application stores its database.
// It honors XDG_DATA_HOME and falls back to ~/.local/share/luzi.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "luzi"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "luzi"), nil
}

// DatabasePath resolves the SQLite database location. A path configured via
// viper (config file, flag, or LUZI_DATABASE_PATH) takes precedence over the
// default data directory.
func DatabasePath() (string, error) {
	if configured := viper.GetString("database.path"); configured != "" {
		return ExpandPath(configured), nil
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "luzi.db"), nil
}

// ExpandPath resolves a leading ~ to the home directory and expands $VAR
// style environment variables, so configured paths like ~/gastos/$USER.db
// work as expected.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~"+string(os.PathSeparator)):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
