package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	prev := log
	log = zerolog.New(&buf).Level(zerolog.InfoLevel)
	t.Cleanup(func() { log = prev })

	Debug("hidden", "k", 1)
	Info("suggestions_served", "product_id", 12, "count", 4)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "suggestions_served", line["message"])
	assert.Equal(t, float64(12), line["product_id"])
	assert.Equal(t, float64(4), line["count"])
	assert.Equal(t, "info", line["level"])
}
