// Package config loads client configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend chat surface
	ServerURL string
	ProjectID string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	ServerURL string `yaml:"server_url"`
	ProjectID string `yaml:"project_id"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
}

// DefaultPath returns the default config file location
// (~/.config/sitechat/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sitechat", "config.yaml")
}

// Load reads configuration: defaults, then the config file (if present),
// then SITECHAT_* environment variables, later sources winning.
func Load() Config {
	cfg := Config{
		ServerURL: "http://localhost:8080",
		LogFile:   filepath.Join(os.TempDir(), "sitechat.log"),
		LogLevel:  slog.LevelInfo,
	}

	if path := DefaultPath(); path != "" {
		// Missing or malformed files are ignored; env still applies.
		_ = cfg.applyFile(path)
	}

	if v := os.Getenv("SITECHAT_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("SITECHAT_PROJECT"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("SITECHAT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SITECHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = ParseLogLevel(v)
	}

	return cfg
}

// applyFile overlays values from a YAML config file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.ServerURL != "" {
		c.ServerURL = fc.ServerURL
	}
	if fc.ProjectID != "" {
		c.ProjectID = fc.ProjectID
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		c.LogLevel = ParseLogLevel(fc.LogLevel)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level, defaulting to INFO.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
