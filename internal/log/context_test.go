package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceHook(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Hook(TraceHook())

	c := AttachRequestIDToContext(context.Background(), "req-1")
	logger.Info().Ctx(c).Msg("with request id")

	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.Equal(t, "req-1", fields[KeyRequestID])
	assert.NotContains(t, fields, KeyTraceID)

	buf.Reset()
	logger.Info().Msg("without context")
	fields = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.NotContains(t, fields, KeyRequestID)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, level("development"))
	assert.Equal(t, zerolog.InfoLevel, level("production"))
	assert.Equal(t, zerolog.InfoLevel, level(""))
}
