package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvDiscordToken, "test-token")
	t.Setenv(EnvSpreadsheetID, "test-sheet-id")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultConfidenceThreshold, cfg.ConfidenceThreshold)
	assert.Equal(t, "./cache", cfg.CacheDir)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(EnvDiscordToken, "")
	t.Setenv(EnvSpreadsheetID, "")

	_, err := Load()
	require.Error(t, err)
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go_syntax", "10m", 10 * time.Minute},
		{"plain_seconds", "600", 600 * time.Second},
		{"invalid", "soon", 5 * time.Second},
		{"empty", "", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ATLAS_TEST_DURATION", tt.value)
			got := getDurationEnv("ATLAS_TEST_DURATION", 5*time.Second)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_ThresholdRange(t *testing.T) {
	cfg := &Config{
		DiscordToken:        "x",
		SpreadsheetID:       "y",
		RefreshInterval:     time.Minute,
		ConfidenceThreshold: 1.5,
	}
	assert.Error(t, cfg.Validate())

	cfg.ConfidenceThreshold = 0.85
	assert.NoError(t, cfg.Validate())
}
