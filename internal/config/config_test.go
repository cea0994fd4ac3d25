package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestApplyFileOverlaysValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: https://planhub.example\nproject_id: site-42\nlog_level: debug\n"), 0644))

	cfg := Config{ServerURL: "http://localhost:8080", LogLevel: slog.LevelInfo}
	require.NoError(t, cfg.applyFile(path))

	assert.Equal(t, "https://planhub.example", cfg.ServerURL)
	assert.Equal(t, "site-42", cfg.ProjectID)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestApplyFileMissingFile(t *testing.T) {
	cfg := Config{ServerURL: "http://localhost:8080"}
	assert.Error(t, cfg.applyFile(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL, "values stay untouched")
}

func TestApplyFileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unclosed"), 0644))

	cfg := Config{}
	assert.Error(t, cfg.applyFile(path))
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SITECHAT_SERVER_URL", "https://env.example")
	t.Setenv("SITECHAT_PROJECT", "site-7")
	t.Setenv("SITECHAT_LOG_LEVEL", "error")

	cfg := Load()
	assert.Equal(t, "https://env.example", cfg.ServerURL)
	assert.Equal(t, "site-7", cfg.ProjectID)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
}
