package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.APIBaseURL != "https://hack-genai.azurewebsites.net" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.BoardTTL != 15*time.Second {
		t.Errorf("BoardTTL = %v, want 15s", cfg.BoardTTL)
	}
	if cfg.BoardIdleTimeout != 10*time.Minute {
		t.Errorf("BoardIdleTimeout = %v, want 10m", cfg.BoardIdleTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("API_BASE_URL", "http://localhost:7071")
	t.Setenv("BOARD_TTL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
	if cfg.APIBaseURL != "http://localhost:7071" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.BoardTTL != 0 {
		t.Errorf("BoardTTL = %v, want 0", cfg.BoardTTL)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad url", "API_BASE_URL", "not a url"},
		{"zero rate", "API_RATE_LIMIT", "0"},
		{"zero burst", "API_BURST", "0"},
		{"bad duration", "API_TIMEOUT", "soon"},
		{"zero idle timeout", "BOARD_IDLE_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("%s=%q: expected error", tt.key, tt.value)
			}
		})
	}
}
