// Package logging provides the structured, colorized logger shared by tectonic commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Level is a structured log level accepted by --log-level.
type Level slog.Level

const (
	// LevelDebug logs every external command and phase transition.
	LevelDebug Level = Level(slog.LevelDebug)
	// LevelInfo is the default operator-facing level.
	LevelInfo Level = Level(slog.LevelInfo)
	// LevelWarn only reports notices and hints.
	LevelWarn Level = Level(slog.LevelWarn)
	// LevelError only reports failures.
	LevelError Level = Level(slog.LevelError)
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	return strings.ToLower(slog.Level(l).String())
}

// ParseLevel converts a textual log level into a Level value.
// Unknown values fall back to info.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// NewLogger constructs a slog.Logger writing tint-formatted records to w.
func NewLogger(w io.Writer, level Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      slog.Level(level),
		TimeFormat: time.TimeOnly,
	})

	return slog.New(handler)
}

// Discard returns a logger that drops every record. Used by tests and library callers
// that do not pass a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
