package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .lodge/).
	userConfigFile = ".lodgeconfig.yaml"

	// Default configuration values
	DefaultAllowDuplicateReservations = false
	DefaultLogLevel                   = "warn"
)

// Config represents user configuration from .lodgeconfig.yaml.
// This file is user-managed and never written by lodge.
type Config struct {
	// AllowDuplicateReservations lets the same customer hold several
	// reservations at one facility. Cancelling removes all of them.
	AllowDuplicateReservations bool `yaml:"allow_duplicate_reservations"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		AllowDuplicateReservations: DefaultAllowDuplicateReservations,
		LogLevel:                   DefaultLogLevel,
	}
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel parses a level name. An empty name means the default level.
func ParseLogLevel(name string) (slog.Level, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultLogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", name)
	}
	return level, nil
}

// LoadConfig loads .lodgeconfig.yaml if it exists, otherwise returns defaults.
func (s *Storage) LoadConfig() (*Config, error) {
	return LoadConfigAt(s.root)
}

// LoadConfigAt loads .lodgeconfig.yaml from dir. It can be used before the
// storage is opened, e.g. to configure logging.
// Partial config files are merged with defaults.
func LoadConfigAt(dir string) (*Config, error) {
	configPath := filepath.Join(dir, userConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file - return defaults
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Parse YAML and merge with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}

	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}
