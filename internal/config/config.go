// Package config loads application configuration from flags, environment
// variables and an optional config file. Precedence: flag > env > file >
// built-in default.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nightmare-tech/chatty-insurance/internal/constants"
)

// Environment variable names
const (
	// EnvBaseURL selects the decision-engine backend base URL
	EnvBaseURL = "CLAUSECOMPASS_API_URL"
)

// Defaults - re-exported from constants for convenience
const (
	DefaultBaseURL = constants.DefaultBaseURL
)

// Config holds the application configuration
type Config struct {
	// BaseURL is the decision-engine backend base URL (no trailing slash)
	BaseURL string

	// Flags
	Render  bool // Render responses with glamour instead of plain JSON
	Verbose bool // Enable debug logging, including HTTP traffic
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{}
}

// Validate loads the configuration from file and environment and fills in
// defaults. Values already set (by flags) take precedence.
func (c *Config) Validate() error {
	// Pick up a .env in the working directory if present. A missing file
	// is not an error.
	_ = godotenv.Load()

	if c.BaseURL == "" {
		c.BaseURL = strings.TrimSpace(os.Getenv(EnvBaseURL))
	}

	// Config file fills in whatever flags and env left unset
	if fileConfig, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
	}
	// Errors loading config file are silently ignored - env vars and flags take precedence

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	return nil
}
