// Package config provides application configuration management.
// It loads settings from environment variables (with .env support) and
// provides defaults for refresh, cache, and classifier settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values applied when the corresponding variable is unset.
const (
	DefaultRefreshInterval     = 600 * time.Second
	DefaultFetchTimeout        = 60 * time.Second
	DefaultShutdownTimeout     = 30 * time.Second
	DefaultConfidenceThreshold = 0.85
)

// Config holds all application configuration.
type Config struct {
	// Discord Configuration
	DiscordToken string

	// Google Sheets Configuration
	SpreadsheetID     string
	GoogleCredentials string // Path to the service-account credentials file

	// Server Configuration
	LogLevel        string
	MetricsPort     string
	ShutdownTimeout time.Duration

	// Data Configuration
	CacheDir string // Directory for persisted resource cache blobs
	DataDir  string // Directory with classifier training templates
	ModelDir string // Directory with trained model artifacts

	// Refresh Configuration
	RefreshInterval time.Duration // Background refresh period
	FetchTimeout    time.Duration // Per-cycle spreadsheet fetch timeout

	// Classifier Configuration
	ConfidenceThreshold float64 // Sequence-model confidence cutoff
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:      getEnv(EnvDiscordToken, ""),
		SpreadsheetID:     getEnv(EnvSpreadsheetID, ""),
		GoogleCredentials: getEnv(EnvGoogleCredentials, "./security/credentials.json"),

		LogLevel:        getEnv(EnvLogLevel, "info"),
		MetricsPort:     getEnv(EnvMetricsPort, "9190"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, DefaultShutdownTimeout),

		CacheDir: getEnv(EnvCacheDir, "./cache"),
		DataDir:  getEnv(EnvDataDir, "./data"),
		ModelDir: getEnv(EnvModelDir, "./model"),

		RefreshInterval: getDurationEnv(EnvRefreshInterval, DefaultRefreshInterval),
		FetchTimeout:    getDurationEnv(EnvFetchTimeout, DefaultFetchTimeout),

		ConfidenceThreshold: getFloatEnv(EnvConfidenceThreshold, DefaultConfidenceThreshold),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("%s is required", EnvDiscordToken)
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("%s is required", EnvSpreadsheetID)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%s must be positive", EnvRefreshInterval)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%s must be within [0,1]", EnvConfidenceThreshold)
	}
	return nil
}

// getEnv reads a string environment variable with a fallback default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable with a fallback default.
// Accepts Go duration syntax ("10m") or a plain number of seconds ("600").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getFloatEnv reads a float environment variable with a fallback default.
func getFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return defaultValue
}
