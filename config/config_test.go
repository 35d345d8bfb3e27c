package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"empty session dir", func(c *Config) { c.SessionDir = "" }},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative backoff", func(c *Config) { c.RetryBackoff = -time.Second }},
		{"zero rate limit", func(c *Config) { c.RateLimit = 0 }},
		{"zero burst", func(c *Config) { c.RateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

// chdir changes the working directory for the duration of the test.
// It mirrors testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("YTSCRAPER_LISTEN_ADDR", ":9090")
	t.Setenv("YOUTUBE_API_KEY", "test-key")
	t.Setenv("YTSCRAPER_SESSION_TTL", "1h")
	t.Setenv("YTSCRAPER_MAX_RETRIES", "5")
	t.Setenv("YTSCRAPER_RATE_LIMIT", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	body := `{"listen_addr": ":7070", "session_dir": "data/sessions"}`
	if err := os.WriteFile(filepath.Join(dir, "ytscraper.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.SessionDir != "data/sessions" {
		t.Errorf("SessionDir = %q", cfg.SessionDir)
	}
	// Fields the file does not set keep their defaults.
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("YTSCRAPER_LISTEN_ADDR", ":9999")

	body := `{"listen_addr": ":7070"}`
	if err := os.WriteFile(filepath.Join(dir, "ytscraper.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, env must override the file", cfg.ListenAddr)
	}
}
