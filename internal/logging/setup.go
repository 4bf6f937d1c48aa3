package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup builds the process logger from LOG_LEVEL and LOG_FORMAT, installs it
// as the slog default and returns it. LOG_FORMAT=text selects colored tint
// output; anything else writes JSON.
func Setup() *slog.Logger {
	return SetupWithWriter(os.Stderr, levelFromEnv(), os.Getenv("LOG_FORMAT"))
}

// SetupWithWriter is Setup with explicit output, level and format.
func SetupWithWriter(w io.Writer, level slog.Level, format string) *slog.Logger {
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// ParseLevel maps debug, warn and error to their slog levels; anything else is info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
