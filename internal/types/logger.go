package types

import (
	"log/slog"
	"os"
	"strings"
)

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) With(args ...any) Logger       { return &slogLogger{l: s.l.With(args...)} }

// NewLogger creates a slog-backed Logger writing JSON to stderr at the given
// level ("debug", "info", "warn", "error"). Unrecognized levels fall back to
// info.
func NewLogger(level string) Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return &slogLogger{l: slog.New(handler)}
}

// WrapSlog adapts an existing *slog.Logger to the Logger interface.
func WrapSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

// nopLogger discards everything. Used as the default when a component is
// constructed with a nil logger.
type nopLogger struct{}

func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (n nopLogger) With(args ...any) Logger     { return n }

// NopLogger returns a Logger that discards all output.
func NopLogger() Logger { return nopLogger{} }
