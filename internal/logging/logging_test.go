package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fortuna/sofifa/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("could not parse stat", "stat", "overall")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "could not parse stat", entry["msg"])
	assert.Equal(t, "overall", entry["stat"])
	assert.Equal(t, "sofifa", entry["service"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty", Format: "text"}, nil)
	assert.Error(t, err)
}
