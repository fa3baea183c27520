package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)
	log.WithModule("resource").WithField("sheet", "A1 Grid").Info("ingested sheet")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ingested sheet", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "resource", entry["module"])
	assert.Equal(t, "A1 Grid", entry["sheet"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		logsDebug bool
		logsWarn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)

			log.Debug("debug message")
			assert.Equal(t, tt.logsDebug, buf.Len() > 0)

			buf.Reset()
			log.Warn("warn message")
			assert.Equal(t, tt.logsWarn, buf.Len() > 0)
		})
	}
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)
	log.WithFields(map[string]any{"grids": 4, "islands": 12}).Info("cache rebuilt")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.EqualValues(t, 4, entry["grids"])
	assert.EqualValues(t, 12, entry["islands"])
}
