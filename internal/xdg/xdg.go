// Package xdg resolves XDG Base Directory paths for cypher-gremlin.
// It falls back to the traditional locations under the home directory when
// the XDG environment variables are unset and creates directories with
// private permissions.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "cypher-gremlin"

// ConfigDir returns the XDG config directory for cypher-gremlin.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/cypher-gremlin when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for cypher-gremlin.
// It falls back to ~/.local/state/cypher-gremlin when XDG_STATE_HOME is
// unset. The interactive shell keeps its history here.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
