package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmLog "github.com/charmbracelet/log"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds the process logger. The text format is rendered by
// charmbracelet/log for terminals; json is meant for log shippers.
func New(format, level string) (*slog.Logger, error) {
	return newWithWriter(format, level, os.Stderr)
}

func newWithWriter(format, level string, w io.Writer) (*slog.Logger, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatText
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatText:
		pretty := charmLog.NewWithOptions(w, charmLog.Options{
			Level:           charmLevel(lvl),
			ReportTimestamp: true,
			Formatter:       charmLog.TextFormatter,
		})
		return slog.New(pretty), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return nil, fmt.Errorf("logger: unsupported log format %q", format)
	}
}

func ParseLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger: unsupported log level %q", input)
	}
}

func charmLevel(level slog.Level) charmLog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmLog.DebugLevel
	case level <= slog.LevelInfo:
		return charmLog.InfoLevel
	case level <= slog.LevelWarn:
		return charmLog.WarnLevel
	default:
		return charmLog.ErrorLevel
	}
}
