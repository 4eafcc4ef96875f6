// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Storage backend names accepted by STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	FrontendURL  string
	OllamaURL    string
	DefaultModel string
	StoreBackend string // "file" or "sqlite"
	ChatDir      string // file backend: one JSON file per session
	DBPath       string // sqlite backend
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
		DefaultModel: getEnv("DEFAULT_MODEL", "mistral"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		ChatDir:      getEnv("CHAT_DIR", "./chat_history"),
		DBPath:       getEnv("DB_PATH", "./data/sessions.db"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL cannot be empty")
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("DEFAULT_MODEL cannot be empty")
	}
	switch c.StoreBackend {
	case BackendFile:
		if c.ChatDir == "" {
			return fmt.Errorf("CHAT_DIR cannot be empty")
		}
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, c.StoreBackend)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
