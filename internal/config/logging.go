package config

import (
	"io"
	"log/slog"
	"os"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SetupLogging installs a text handler on stderr as the default logger.
// Stdout is left to command output.
func SetupLogging(level string) {
	slog.SetDefault(NewLogger(os.Stderr, level))
	slog.SetLogLoggerLevel(ParseLevel(level))
}

// NewLogger returns a text logger writing to w at level. Unknown levels
// fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps a level name to its slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	lvl, ok := logLevels[level]
	if !ok {
		return slog.LevelInfo
	}
	return lvl
}
