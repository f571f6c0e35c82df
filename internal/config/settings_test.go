package config

import (
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, "json", settings.OutputFormat)
	assert.True(t, settings.PrettyPrint)
	assert.Empty(t, settings.ExcludePatterns)
	assert.Equal(t, slog.LevelError, settings.LogLevel)
	assert.Equal(t, "text", settings.LogFormat)
	assert.Empty(t, settings.StoreDSN)
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	t.Setenv("REPO_SCANNER_EXCLUDE", "node_modules/**, .git/** ,vendor/**")
	t.Setenv("REPO_SCANNER_MAX_DEPTH", "10")
	t.Setenv("REPO_SCANNER_CONCURRENCY", "4")
	t.Setenv("REPO_SCANNER_FOLLOW_SYMLINKS", "true")
	t.Setenv("REPO_SCANNER_NO_LINE_STATS", "true")
	t.Setenv("REPO_SCANNER_LOG_LEVEL", "debug")
	t.Setenv("REPO_SCANNER_FORMAT", "yaml")
	t.Setenv("REPO_SCANNER_DB_DSN", "postgres://localhost/scans")

	settings := LoadSettings()

	assert.Equal(t, []string{"node_modules/**", ".git/**", "vendor/**"}, settings.ExcludePatterns)
	assert.Equal(t, 10, settings.MaxDepth)
	assert.Equal(t, 4, settings.Concurrency)
	assert.True(t, settings.FollowSymlinks)
	assert.True(t, settings.NoLineStats)
	assert.Equal(t, slog.LevelDebug, settings.LogLevel)
	assert.Equal(t, "yaml", settings.OutputFormat)
	assert.Equal(t, "postgres://localhost/scans", settings.StoreDSN)
}

func TestLoadSettingsIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("REPO_SCANNER_MAX_DEPTH", "not-a-number")
	t.Setenv("REPO_SCANNER_CONCURRENCY", "-3")

	settings := LoadSettings()

	assert.Equal(t, 0, settings.MaxDepth)
	assert.Equal(t, 0, settings.Concurrency)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"bogus", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		level, err := ParseLogLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
		} else {
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.expected, level, tt.input)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	settings := DefaultSettings()
	assert.NoError(t, settings.Validate())

	settings.OutputFormat = "xml"
	assert.Error(t, settings.Validate())

	settings = DefaultSettings()
	settings.MaxDepth = -1
	assert.Error(t, settings.Validate())
}
