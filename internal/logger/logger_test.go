package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "INFO", Format: "json", Output: &buf}))

	ErrorWithErr(context.Background(), "price lookup failed", errors.New("boom"), "ticker", "AAPL")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "price lookup failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "AAPL", entry["ticker"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestDebug_RequiresDetailed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "DEBUG", Format: "text", Output: &buf}))
	Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, Init(Options{Level: "DEBUG", Format: "text", Detailed: true, Output: &buf}))
	Debug(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestStartSpan_DisabledReturnsSameContext(t *testing.T) {
	require.NoError(t, Init(Options{Output: &bytes.Buffer{}}))
	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	defer span.End()
	assert.Equal(t, ctx, got)
}
