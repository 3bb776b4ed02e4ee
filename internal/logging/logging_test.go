package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/JamissonSilvaTico/LavaJato/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Int64("product_id", 3).Msg("stock below minimum")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "stock below minimum", line["message"])
	assert.Equal(t, "lavajato", line["service"])
	assert.EqualValues(t, 3, line["product_id"])
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "debug", Pretty: true}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}
