package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"log/slog"

	"github.com/joho/godotenv"
)

// Settings holds all scanner configuration
type Settings struct {
	// Output settings
	OutputFile   string
	OutputFormat string // "json", "yaml" or "text"
	PrettyPrint  bool

	// Scan behavior
	IncludePatterns []string
	ExcludePatterns []string
	MaxDepth        int
	FollowSymlinks  bool
	Concurrency     int
	MaxFileSize     int64
	NoLineStats     bool // Disable line statistics (enabled by default)
	NoGit           bool // Skip git metadata detection
	Verbose         bool
	Debug           bool

	// Persistence
	StoreDSN string // Postgres connection string; empty = in-memory only

	// Logging
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	LogFile   string // Optional: write logs to file instead of stderr
}

// DefaultSettings returns default configuration
func DefaultSettings() *Settings {
	return &Settings{
		OutputFile:      "",
		OutputFormat:    "json",
		PrettyPrint:     true,
		IncludePatterns: []string{},
		ExcludePatterns: []string{},
		MaxDepth:        0, // 0 = engine default
		FollowSymlinks:  false,
		Concurrency:     0, // 0 = engine default
		MaxFileSize:     0, // 0 = engine default
		NoLineStats:     false,
		NoGit:           false,
		Verbose:         false,
		Debug:           false,
		StoreDSN:        "",
		LogLevel:        slog.LevelError, // Only errors by default
		LogFormat:       "text",
		LogFile:         "",
	}
}

// LoadSettings creates settings from defaults and applies environment
// variable overrides. A .env file in the working directory is loaded
// first when present.
func LoadSettings() *Settings {
	// Missing .env is the normal case, not an error
	_ = godotenv.Load()

	settings := DefaultSettings()

	if outputFile := os.Getenv("REPO_SCANNER_OUTPUT"); outputFile != "" {
		settings.OutputFile = outputFile
	}

	if format := os.Getenv("REPO_SCANNER_FORMAT"); format != "" {
		settings.OutputFormat = strings.ToLower(format)
	}

	if pretty := os.Getenv("REPO_SCANNER_PRETTY"); pretty != "" {
		settings.PrettyPrint = strings.ToLower(pretty) == "true"
	}

	if include := os.Getenv("REPO_SCANNER_INCLUDE"); include != "" {
		settings.IncludePatterns = splitPatterns(include)
	}

	if exclude := os.Getenv("REPO_SCANNER_EXCLUDE"); exclude != "" {
		settings.ExcludePatterns = splitPatterns(exclude)
	}

	if maxDepth := os.Getenv("REPO_SCANNER_MAX_DEPTH"); maxDepth != "" {
		if v, err := strconv.Atoi(maxDepth); err == nil && v > 0 {
			settings.MaxDepth = v
		}
	}

	if concurrency := os.Getenv("REPO_SCANNER_CONCURRENCY"); concurrency != "" {
		if v, err := strconv.Atoi(concurrency); err == nil && v > 0 {
			settings.Concurrency = v
		}
	}

	if maxSize := os.Getenv("REPO_SCANNER_MAX_FILE_SIZE"); maxSize != "" {
		if v, err := strconv.ParseInt(maxSize, 10, 64); err == nil && v > 0 {
			settings.MaxFileSize = v
		}
	}

	if follow := os.Getenv("REPO_SCANNER_FOLLOW_SYMLINKS"); follow != "" {
		settings.FollowSymlinks = strings.ToLower(follow) == "true"
	}

	if noStats := os.Getenv("REPO_SCANNER_NO_LINE_STATS"); noStats != "" {
		settings.NoLineStats = strings.ToLower(noStats) == "true"
	}

	if dsn := os.Getenv("REPO_SCANNER_DB_DSN"); dsn != "" {
		settings.StoreDSN = dsn
	}

	// Logging settings
	if logLevel := os.Getenv("REPO_SCANNER_LOG_LEVEL"); logLevel != "" {
		if level, err := ParseLogLevel(logLevel); err == nil {
			settings.LogLevel = level
		}
	}

	if logFormat := os.Getenv("REPO_SCANNER_LOG_FORMAT"); logFormat != "" {
		settings.LogFormat = logFormat
	}

	if logFile := os.Getenv("REPO_SCANNER_LOG_FILE"); logFile != "" {
		settings.LogFile = logFile
	}

	if verbose := os.Getenv("REPO_SCANNER_VERBOSE"); verbose != "" {
		settings.Verbose = strings.ToLower(verbose) == "true"
	}

	if debug := os.Getenv("REPO_SCANNER_DEBUG"); debug != "" {
		settings.Debug = strings.ToLower(debug) == "true"
	}

	return settings
}

func splitPatterns(raw string) []string {
	parts := strings.Split(raw, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// ParseLogLevel converts string log level to slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ConfigureLogger sets up the global logger based on settings
func (s *Settings) ConfigureLogger() *slog.Logger {
	var handler slog.Handler

	var output io.Writer = os.Stderr
	if s.LogFile != "" {
		file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// Fallback to stderr if file can't be opened
			fmt.Fprintf(os.Stderr, "Warning: Cannot open log file %s: %v\n", s.LogFile, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{
		Level: s.LogLevel,
	}

	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// Validate checks if settings are valid
func (s *Settings) Validate() error {
	switch s.OutputFormat {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("invalid output format: %s (must be json, yaml or text)", s.OutputFormat)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative")
	}
	if s.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	return nil
}
