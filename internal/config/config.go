// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/skill-finder/internal/extraction"
)

// Config represents the runtime configuration. It can be loaded from a JSON
// file, from environment variables, or both; environment variables win.
// All fields are optional: without an API key extraction runs locally only,
// and without a database URL turns are kept in memory.
type Config struct {
	// Server
	Port string `json:"port,omitempty"` // HTTP listen port

	// Extraction
	APIKey           string `json:"api_key,omitempty"`            // Gemini API key
	RemoteTimeoutSec int    `json:"remote_timeout_sec,omitempty"` // Remote extraction timeout in seconds
	KBLimit          int    `json:"kb_limit,omitempty"`           // Max knowledge base snippets per prompt

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Port:        os.Getenv("PORT"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.RemoteTimeoutSec < 0 {
		return fmt.Errorf("config error: 'remote_timeout_sec' must be non-negative")
	}
	if c.KBLimit < 0 {
		return fmt.Errorf("config error: 'kb_limit' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to layer environment variables over a config file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == "" {
		result.Port = defaults.Port
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RemoteTimeoutSec == 0 {
		result.RemoteTimeoutSec = defaults.RemoteTimeoutSec
	}
	if result.KBLimit == 0 {
		result.KBLimit = defaults.KBLimit
	}

	if result.Port == "" {
		result.Port = "8080"
	}
	if result.RemoteTimeoutSec == 0 {
		result.RemoteTimeoutSec = int(extraction.DefaultRemoteTimeout.Seconds())
	}

	return result
}
