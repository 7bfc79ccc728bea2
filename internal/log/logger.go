// Package log wraps slog with component tagging and the module's standard
// field names.
package log

import (
	"log/slog"
	"os"
)

// Logger tags every record with its component name.
type Logger struct {
	*slog.Logger
}

// ParseLevel maps the config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a text logger to stdout at the given level and installs it as
// the process default.
func New(level slog.Level) *Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return &Logger{Logger: logger}
}

// WithComponent returns a logger tagging records with the component name.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.Logger.With(FieldComponent, component)
}
