package shell

import (
	"os"
	"path/filepath"

	"src.lamb.sh/pkg/env"
)

// Returns the path of rc.toml.
func rcPath() (string, error) {
	dir, err := baseDir(env.XDG_CONFIG_HOME, ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lamb", "rc.toml"), nil
}

// Returns the path of the history database.
func dbPath() (string, error) {
	dir, err := baseDir(env.XDG_STATE_HOME, filepath.Join(".local", "state"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lamb", "db.bolt"), nil
}

// Returns the value of an XDG base directory variable, falling back to a
// path under the home directory.
func baseDir(envName, fallback string) (string, error) {
	if dir := os.Getenv(envName); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback), nil
}
