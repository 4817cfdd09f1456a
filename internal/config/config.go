package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dealflow configuration.
type Config struct {
	// Catalog storage
	Database DatabaseConfig `yaml:"database"`

	// HTTP API
	Server ServerConfig `yaml:"server"`

	// Board behaviour
	Board BoardConfig `yaml:"board"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DatabaseConfig configures the sqlite catalog.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// BoardConfig configures the mounted board.
type BoardConfig struct {
	SeedFile        string `yaml:"seed_file"`    // YAML seed; empty means built-in demo data
	FromCatalog     bool   `yaml:"from_catalog"` // mount from the sqlite catalog instead
	ToastTTL        string `yaml:"toast_ttl"`
	ProcessingDelay string `yaml:"processing_delay"`
	Touch           bool   `yaml:"touch"`
	View            string `yaml:"view"` // kanban, table, calendar
	AssistantRules  string `yaml:"assistant_rules"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // empty means stderr
}

// DefaultDir is where config and the catalog live unless overridden
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dealflow"
	}
	return filepath.Join(home, ".dealflow")
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(DefaultDir(), "dealflow.db")},
		Server:   ServerConfig{Addr: ":8080", ShutdownTimeout: "5s"},
		Board: BoardConfig{
			ToastTTL:        "3s",
			ProcessingDelay: "2s",
			View:            "kanban",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DEALFLOW_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DEALFLOW_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DEALFLOW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DEALFLOW_SEED"); v != "" {
		c.Board.SeedFile = v
	}
	if v := os.Getenv("DEALFLOW_TOUCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Board.Touch = b
		}
	}
}

// Validate checks durations and enumerated values.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"board.toast_ttl":         c.Board.ToastTTL,
		"board.processing_delay":  c.Board.ProcessingDelay,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// ToastTTL is how long toasts stay up
func (c *Config) ToastTTL() time.Duration {
	d, _ := parseDuration(c.Board.ToastTTL)
	return d
}

// ProcessingDelay is how long simulated actions take
func (c *Config) ProcessingDelay() time.Duration {
	d, _ := parseDuration(c.Board.ProcessingDelay)
	return d
}

// ShutdownTimeout bounds graceful server shutdown
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ShutdownTimeout)
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}

// parseDuration treats an empty string as zero, which callers map to their defaults
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
