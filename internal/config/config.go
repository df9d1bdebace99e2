// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cyphergremlin/cli/internal/xdg"
)

// Environment variables that override file settings.
const (
	EnvURL         = "CYPHER_GREMLIN_URL"
	EnvUser        = "CYPHER_GREMLIN_USER"
	EnvPassword    = "CYPHER_GREMLIN_PASSWORD"
	EnvSerializer  = "CYPHER_GREMLIN_SERIALIZER"
	EnvVerbose     = "CYPHER_GREMLIN_VERBOSE"
	EnvPGDSN       = "CYPHER_GREMLIN_PG_DSN"
	EnvDatabaseURL = "DATABASE_URL"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string       `json:"log_level"`
	Server   ServerConfig `json:"server"`
	Retries  int          `json:"retries"`
}

// ServerConfig holds Gremlin Server connection settings.
type ServerConfig struct {
	URL             string `json:"url"`
	Username        string `json:"username,omitempty"`
	TraversalSource string `json:"traversal_source,omitempty"`
	Graph           string `json:"graph,omitempty"`
	Serializer      string `json:"serializer"`
	TimeoutMS       int64  `json:"timeout_ms,omitempty"`
	BatchSize       int    `json:"batch_size,omitempty"`
}

// Timeout returns the configured evaluation timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Server:   ServerConfig{Serializer: "graphson-v3"},
		Retries:  0,
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Path returns the config file location.
func Path() (string, error) { return path() }

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.Server.Serializer == "" {
		c.Server.Serializer = Defaults().Server.Serializer
	}
	if c.LogLevel == "" {
		c.LogLevel = Defaults().LogLevel
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Remove deletes the config file. A missing file is not an error.
func Remove() error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ApplyEnv overlays environment variables on c.
func ApplyEnv(c Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvURL)); v != "" {
		c.Server.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUser)); v != "" {
		c.Server.Username = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSerializer)); v != "" {
		c.Server.Serializer = v
	}
	if Verbose() {
		c.LogLevel = "debug"
	}
	return c
}

// Verbose reports whether CYPHER_GREMLIN_VERBOSE is set to a true value.
func Verbose() bool {
	v := strings.TrimSpace(os.Getenv(EnvVerbose))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// PasswordFromEnv returns the password override, if any.
func PasswordFromEnv() (string, bool) {
	v, ok := os.LookupEnv(EnvPassword)
	return v, ok && v != ""
}

// PGDSNFromEnv returns the PostgreSQL DSN for imports and the variable it
// came from. CYPHER_GREMLIN_PG_DSN wins over DATABASE_URL.
func PGDSNFromEnv() (dsn, source string) {
	for _, name := range []string{EnvPGDSN, EnvDatabaseURL} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, name
		}
	}
	return "", ""
}
