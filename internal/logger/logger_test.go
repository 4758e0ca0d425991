package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeicConvert/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupJSON(t *testing.T) {
	if os.Getenv("HEICCONV_DEBUG") == "1" {
		t.Skip("debug mode mirrors output to a file")
	}
	var buf bytes.Buffer
	Setup(config.LogConfig{Level: "info", Format: "json"}, &buf)
	t.Cleanup(func() { Setup(config.LogConfig{}, nil) })

	Debug("hidden")
	Info("converted", "src", "a.heic")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "converted", m["msg"])
	assert.Equal(t, "a.heic", m["src"])
	assert.NotContains(t, m, "source")
}

func TestSetupTextLevel(t *testing.T) {
	if os.Getenv("HEICCONV_DEBUG") == "1" {
		t.Skip("debug mode forces debug level")
	}
	var buf bytes.Buffer
	Setup(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	t.Cleanup(func() { Setup(config.LogConfig{}, nil) })

	Info("suppressed")
	assert.Zero(t, buf.Len())

	Warn("open failed", "path", "/out/a.jpg")
	assert.Contains(t, buf.String(), "open failed")
	assert.Contains(t, buf.String(), "source=")
}
