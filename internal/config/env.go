// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Core (Required)
	EnvDiscordToken      = "ATLAS_DISCORD_TOKEN"
	EnvSpreadsheetID     = "ATLAS_SPREADSHEET_ID"
	EnvGoogleCredentials = "ATLAS_GOOGLE_CREDENTIALS"

	// Server
	EnvLogLevel        = "ATLAS_LOG_LEVEL"
	EnvMetricsPort     = "ATLAS_METRICS_PORT"
	EnvShutdownTimeout = "ATLAS_SHUTDOWN_TIMEOUT"

	// Data
	EnvCacheDir = "ATLAS_CACHE_DIR"
	EnvDataDir  = "ATLAS_DATA_DIR"
	EnvModelDir = "ATLAS_MODEL_DIR"

	// Refresh
	EnvRefreshInterval = "ATLAS_REFRESH_INTERVAL"
	EnvFetchTimeout    = "ATLAS_FETCH_TIMEOUT"

	// Classifier
	EnvConfidenceThreshold = "ATLAS_CONFIDENCE_THRESHOLD"
)
