// Package log configures the process-wide slog logger. Both binaries call
// Setup once at startup; packages then log through the slog default.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Component string
}

// FromEnv builds a Config from LOG_LEVEL and LOG_FORMAT.
func FromEnv(component string) Config {
	return Config{
		Level:     ParseLevel(os.Getenv("LOG_LEVEL")),
		Format:    strings.ToLower(os.Getenv("LOG_FORMAT")),
		Component: component,
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the configured logger as the slog default and returns it.
func Setup(config Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.Level}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	if config.Component != "" {
		logger = logger.With("component", config.Component)
	}

	slog.SetDefault(logger)
	return logger
}
