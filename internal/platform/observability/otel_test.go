package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInit_WritesSpansAndLogs(t *testing.T) {
	var logs, spans bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), "grocery-test", Options{
		LogLevel:    "debug",
		LogWriter:   &logs,
		TraceWriter: &spans,
	})
	require.NoError(t, err)

	instruments.Logger.Debug("hello", slog.String("k", "v"))
	_, span := instruments.Tracer("test").Start(context.Background(), "unit")
	span.End()
	require.NotNil(t, instruments.Meter("test"))

	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, logs.String(), `"msg":"hello"`)
	require.Contains(t, spans.String(), `"Name": "unit"`)
}

func TestInit_WithoutExporter(t *testing.T) {
	var logs bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), "grocery-test", Options{LogWriter: &logs})
	require.NoError(t, err)
	instruments.Logger.Debug("hidden")
	require.NoError(t, shutdown(context.Background()))
	require.Empty(t, logs.String())
}
