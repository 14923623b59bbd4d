package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "REQUEST_TIMEOUT", "RATE_LIMIT_RPS", "MAX_ATTRIBUTES", "OUTPUT_DIR", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 || cfg.MaxAttributes != 16 || cfg.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.RateLimitRPS != 5 || cfg.OutputDir != "./output" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("MAX_ATTRIBUTES", "not-a-number")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OUTPUT_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("plain seconds should parse, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxAttributes != 16 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.MaxAttributes)
	}
	if cfg.RateLimitRPS != 0 {
		t.Errorf("expected rate limit disabled, got %f", cfg.RateLimitRPS)
	}
}

func TestLoadDotEnv(t *testing.T) {
	// godotenv 不覆盖已存在的变量
	t.Setenv("MAX_ATTRIBUTES", "")
	os.Unsetenv("MAX_ATTRIBUTES")
	t.Setenv("PORT", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MAX_ATTRIBUTES=12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxAttributes != 12 {
		t.Errorf("expected value from .env, got %d", cfg.MaxAttributes)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: 8080, MaxAttributes: 16, RequestTimeout: time.Second, LogLevel: "info"}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"bad_port", func(c *Config) { c.Port = 0 }, false},
		{"bad_max", func(c *Config) { c.MaxAttributes = -1 }, false},
		{"bad_timeout", func(c *Config) { c.RequestTimeout = 0 }, false},
		{"bad_rate", func(c *Config) { c.RateLimitRPS = -1 }, false},
		{"bad_level", func(c *Config) { c.LogLevel = "loud" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	c := Config{LogLevel: "warn"}
	logger, err := c.NewLogger()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Errorf("debug should be disabled at warn level")
	}
}
