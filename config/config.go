// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration for the scraper service.
type Config struct {
	// ListenAddr is the HTTP listen address
	ListenAddr string `json:"listen_addr"`
	// APIKey is the default YouTube Data API key; requests may override it
	APIKey string `json:"api_key"`

	// SessionDir is the directory holding session files
	SessionDir string `json:"session_dir"`
	// SessionTTL is how long stored sessions are kept before the sweep
	// removes them
	SessionTTL time.Duration `json:"session_ttl"`

	// MaxRetries is the number of attempts per API batch
	MaxRetries int `json:"max_retries"`
	// RetryBackoff is the fixed delay between attempts
	RetryBackoff time.Duration `json:"retry_backoff"`

	// RateLimit is the sustained API request rate per second
	RateLimit float64 `json:"rate_limit"`
	// RateBurst is the API request burst size
	RateBurst int `json:"rate_burst"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   ":8080",
		SessionDir:   "sessions",
		SessionTTL:   24 * time.Hour,
		MaxRetries:   3,
		RetryBackoff: 2 * time.Second,
		RateLimit:    10,
		RateBurst:    5,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults. A .env file in the working
// directory is loaded first so it can supply the environment variables.
func Load() (*Config, error) {
	// Missing .env is fine; it only exists in development setups.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytscraper.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytscraper.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytscraper", "ytscraper.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTSCRAPER_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTSCRAPER_SESSION_DIR"); v != "" {
		c.SessionDir = v
	}
	if v := os.Getenv("YTSCRAPER_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v := os.Getenv("YTSCRAPER_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTSCRAPER_RETRY_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RetryBackoff = d
		}
	}
	if v := os.Getenv("YTSCRAPER_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimit = f
		}
	}
	if v := os.Getenv("YTSCRAPER_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.SessionDir == "" {
		return fmt.Errorf("session_dir must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff must be non-negative")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive")
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1")
	}
	return nil
}
