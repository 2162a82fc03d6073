// Package config provides configuration loading and validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all settings for the resumator CLI and server. Values can be
// loaded from a JSON file and overridden by environment variables; missing
// values fall back to defaults.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	// Client
	BackendURL  string `json:"backend_url,omitempty"`  // Base URL of the document store backend
	HandoffPath string `json:"handoff_path,omitempty"` // SQLite file for navigation-surviving handoffs

	// AI
	GeminiAPIKey string `json:"api_key,omitempty"`
	AIModel      string `json:"ai_model,omitempty"`

	// Editing behavior
	AutosaveDelayMS int `json:"autosave_delay_ms,omitempty"` // Debounce delay for autosave

	// Observability
	LogLevel string `json:"log_level,omitempty"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Port:            8080,
		BackendURL:      "http://localhost:8080",
		HandoffPath:     defaultHandoffPath(),
		AIModel:         "gemini-2.5-flash",
		AutosaveDelayMS: 1500,
		LogLevel:        "info",
	}
}

// Load reads configuration from an optional JSON file, applies environment
// overrides, then fills remaining gaps from Defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg = cfg.MergeWithDefaults(Defaults())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides config values from environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("RESUMATOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("RESUMATOR_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("RESUMATOR_AI_MODEL"); v != "" {
		c.AIModel = v
	}
	if v := os.Getenv("RESUMATOR_AUTOSAVE_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.AutosaveDelayMS = ms
		}
	}
	if v := os.Getenv("RESUMATOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RESUMATOR_HANDOFF_PATH"); v != "" {
		c.HandoffPath = v
	}
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.HandoffPath == "" {
		result.HandoffPath = defaults.HandoffPath
	}
	if result.AIModel == "" {
		result.AIModel = defaults.AIModel
	}
	if result.AutosaveDelayMS == 0 {
		result.AutosaveDelayMS = defaults.AutosaveDelayMS
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	return result
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.AutosaveDelayMS < 100 {
		return fmt.Errorf("config error: 'autosave_delay_ms' must be at least 100, got %d", c.AutosaveDelayMS)
	}
	return nil
}

// AutosaveDelay returns the autosave debounce delay as a duration.
func (c *Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}

// defaultHandoffPath places the handoff database under the user cache dir,
// falling back to the working directory.
func defaultHandoffPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "resumator-handoff.db"
	}
	return filepath.Join(dir, "resumator", "handoff.db")
}
