package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("IDEAS_ADDR", "")
	t.Setenv("IDEAS_DB", "")
	t.Setenv("IDEAS_SERVER", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.ServerURL != "http://localhost:8080" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !strings.HasSuffix(cfg.DBPath, "ideas.db") {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("IDEAS_ADDR", "127.0.0.1:9000")
	t.Setenv("IDEAS_DB", "/tmp/x.db")
	t.Setenv("IDEAS_SERVER", "http://example.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.DBPath != "/tmp/x.db" || cfg.ServerURL != "http://example.test" || cfg.LogLevel != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
