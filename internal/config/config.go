// Package config loads settings from environment variables. Command line
// flags in cmd/ideas override what is loaded here.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Addr is the listen address of the API server (default ":8080").
	Addr string

	// DBPath is the sqlite database file (default "~/.ideas/ideas.db").
	DBPath string

	// ServerURL is the backend the client commands talk to.
	ServerURL string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg := &Config{
		Addr:      getEnv("IDEAS_ADDR", ":8080"),
		DBPath:    getEnv("IDEAS_DB", filepath.Join(home, ".ideas", "ideas.db")),
		ServerURL: getEnv("IDEAS_SERVER", "http://localhost:8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// getEnv reads a string env var or returns the default
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}
