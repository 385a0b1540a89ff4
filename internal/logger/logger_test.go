package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{in: "debug", want: slog.LevelDebug, wantOK: true},
		{in: "INFO", want: slog.LevelInfo, wantOK: true},
		{in: " warn ", want: slog.LevelWarn, wantOK: true},
		{in: "error", want: slog.LevelError, wantOK: true},
		{in: "verbose", want: slog.LevelInfo, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := logger.Component(logger.New("warn", "json", &buf), "engine")
	l.Info("dropped")
	l.Warn("kept", "key", "value")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))

	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "engine", rec["component"])
	assert.Equal(t, "value", rec["key"])
}

func TestNew_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer

	logger.New("loud", "text", &buf)

	assert.Contains(t, buf.String(), "invalid log level")
	assert.Contains(t, buf.String(), "configured=loud")
}

func TestContext(t *testing.T) {
	assert.Equal(t, slog.Default(), logger.FromContext(context.Background()))

	l := slog.New(slog.DiscardHandler)
	ctx := logger.ToContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
}
