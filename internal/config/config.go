// Package config loads rolodex configuration from YAML with environment
// overrides. Precedence, lowest to highest: built-in defaults, config
// file, ROLODEX_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/storage"
)

// DefaultFileName is the per-directory config file.
const DefaultFileName = ".rolodex.yaml"

// Environment variable overrides.
const (
	EnvBackend  = "ROLODEX_BACKEND"
	EnvPath     = "ROLODEX_PATH"
	EnvHTTPURL  = "ROLODEX_HTTP_URL"
	EnvLogLevel = "ROLODEX_LOG_LEVEL"
	EnvTimeout  = "ROLODEX_HTTP_TIMEOUT_SECONDS"
)

// Config is the complete rolodex configuration.
type Config struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	// Backend is one of json, txt, csv, http, sqlite.
	Backend string `yaml:"backend"`
	// Path is the data file or database location (file backends).
	Path string `yaml:"path"`
	// URL is the remote endpoint (http backend).
	URL string `yaml:"url"`
	// TimeoutSeconds bounds remote requests (http backend).
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`
	// File receives logs in addition to stderr when set.
	File string `yaml:"file"`
}

// Default returns the built-in configuration: a JSON rolodex under the
// user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Backend:        storage.BackendJSON,
			Path:           filepath.Join(home, ".rolodex", "contacts.json"),
			TimeoutSeconds: 10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from path. An empty path searches the current
// directory for .rolodex.yaml, then ~/.rolodex/config.yaml, and falls
// back to defaults when neither exists; an explicit path that is missing
// is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if alt := homeConfigPath(); alt != "" {
				if _, err := os.Stat(alt); err == nil {
					path = alt
				}
			}
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if explicit {
			return nil, rdxerr.New(rdxerr.CodeConfigNotFound,
				fmt.Sprintf("config file %q not found", path), err)
		}
	case err != nil:
		return nil, rdxerr.ConfigError(fmt.Sprintf("reading %q", path), err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, rdxerr.ConfigError(fmt.Sprintf("parsing %q", path), err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// homeConfigPath is the user-level config location, ~/.rolodex/config.yaml.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rolodex", "config.yaml")
}

// applyEnv applies ROLODEX_* overrides on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvHTTPURL); v != "" {
		c.Storage.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Storage.TimeoutSeconds = n
		}
	}
}

// Validate checks for values the rest of the system cannot work with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendJSON, storage.BackendTXT, storage.BackendCSV, storage.BackendSQLite:
		if c.Storage.Path == "" {
			return rdxerr.ConfigError(
				fmt.Sprintf("storage backend %q requires a path", c.Storage.Backend), nil)
		}
	case storage.BackendHTTP:
		if c.Storage.URL == "" {
			return rdxerr.ConfigError("storage backend \"http\" requires a url", nil)
		}
	default:
		return rdxerr.ConfigError(
			fmt.Sprintf("unknown storage backend %q", c.Storage.Backend), nil)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return rdxerr.ConfigError(fmt.Sprintf("unknown log level %q", c.Log.Level), nil)
	}
	return nil
}

// StorageOptions maps the configuration onto the storage factory.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
		URL:     c.Storage.URL,
		Timeout: time.Duration(c.Storage.TimeoutSeconds) * time.Second,
	}
}
