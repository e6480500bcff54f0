package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONEntryShape(t *testing.T) {
	var out bytes.Buffer
	log, err := newWithWriter("json", "info", &out)
	require.NoError(t, err)

	log.With("component", "usecase.chat").Info("received webhook reply", "session_id", "s-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "received webhook reply", entry["msg"])
	require.Equal(t, "usecase.chat", entry["component"])
	require.Equal(t, "s-1", entry["session_id"])
}

func TestLevelFiltering(t *testing.T) {
	var out bytes.Buffer
	log, err := newWithWriter("json", "error", &out)
	require.NoError(t, err)

	log.Info("hidden")
	log.Error("shown")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "shown")
}

func TestTextFormat(t *testing.T) {
	var out bytes.Buffer
	log, err := newWithWriter("", "debug", &out)
	require.NoError(t, err)

	log.Debug("webhook url not configured", "session_id", "s-2")
	require.Contains(t, out.String(), "webhook url not configured")
	require.Contains(t, out.String(), "s-2")
}

func TestNew_Invalid(t *testing.T) {
	_, err := newWithWriter("xml", "info", &bytes.Buffer{})
	require.ErrorContains(t, err, "unsupported log format")

	_, err = newWithWriter("json", "verbose", &bytes.Buffer{})
	require.ErrorContains(t, err, "unsupported log level")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, "in=%q", in)
		require.Equal(t, want, got)
	}
}
