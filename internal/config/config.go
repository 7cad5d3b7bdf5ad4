// Package config loads squad settings from .squad/config.yaml, applying
// defaults for anything missing and warning (not failing) on invalid
// files so a broken config never blocks the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for configuration operations.
var (
	// ErrInvalidYAML indicates invalid YAML syntax in the config file.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")
	// ErrInvalidScope indicates an invalid default scope value.
	ErrInvalidScope = errors.New("config: invalid scope, must be one of: user, project")
)

// FileName is the config file path relative to the project root.
const FileName = ".squad/config.yaml"

// Config is the root configuration for the squad CLI.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	UI       UIConfig       `yaml:"ui"`
	Update   UpdateConfig   `yaml:"update"`
}

// DefaultsConfig holds fallback values for command flags.
type DefaultsConfig struct {
	// Scope is the install scope used when --scope is not given.
	Scope string `yaml:"scope"`
	// Categories restricts which corpus categories init deploys.
	Categories []string `yaml:"categories"`
}

// UIConfig controls terminal output.
type UIConfig struct {
	NoColor        bool `yaml:"no_color"`
	NonInteractive bool `yaml:"non_interactive"`
}

// UpdateConfig controls the release check.
type UpdateConfig struct {
	Check  bool   `yaml:"check"`
	APIURL string `yaml:"api_url"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{Scope: "project"},
		Update:   UpdateConfig{Check: true},
	}
}

// Load reads the config for a project root. A missing file returns
// defaults; an unreadable or invalid file returns defaults with a warning
// through logger.
func Load(root string, logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Default()

	path := filepath.Join(root, filepath.FromSlash(FileName))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg
	}
	if err != nil {
		logger.Warn("failed to read config, using defaults", "path", path, "error", err)
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.Warn("failed to parse config, using defaults", "path", path, "error", ErrInvalidYAML)
		return Default()
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn("invalid config value, using defaults", "path", path, "error", err)
		return Default()
	}
	return cfg
}

// Validate checks value constraints beyond YAML syntax.
func (c *Config) Validate() error {
	switch c.Defaults.Scope {
	case "", "user", "project":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidScope, c.Defaults.Scope)
	}
	return nil
}

// Save writes the config to the project root, creating .squad/ if needed.
func (c *Config) Save(root string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := filepath.Join(root, filepath.FromSlash(FileName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
