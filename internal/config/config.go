// Package config handles XDG configuration directory and file paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// DefaultBaseURL is used when neither config.yaml nor TASKDECK_URL
	// provides a server address.
	DefaultBaseURL = "http://localhost:3000/api"

	// EnvBaseURL overrides the configured server address.
	EnvBaseURL = "TASKDECK_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the task server address, without a trailing slash.
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig mirrors config.yaml.
type fileConfig struct {
	BaseURL string `yaml:"base_url"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
// The server address resolves in order: TASKDECK_URL, config.yaml, default.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir, BaseURL: DefaultBaseURL}

	if data, err := os.ReadFile(filepath.Join(dir, ConfigFile)); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
		if fc.BaseURL != "" {
			cfg.BaseURL = fc.BaseURL
		}
	}

	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.BaseURL = env
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}
