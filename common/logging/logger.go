package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/multillm/survey-stack/common/middleware"
)

// Logger wraps slog.Logger with request-aware helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout.
// format can be "json" or "text" (default is json).
func New(level slog.Level, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Default returns the process default logger.
func Default() *Logger {
	return &Logger{Logger: slog.Default()}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext returns a logger carrying the request ID found in ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		return l.Logger.With(slog.String(FieldRequestID, reqID))
	}
	return l.Logger
}

// InfoContext logs at Info level with context-aware fields.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).InfoContext(ctx, msg, args...)
}

// WarnContext logs at Warn level with context-aware fields.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).WarnContext(ctx, msg, args...)
}

// ErrorContext logs at Error level with context-aware fields.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).ErrorContext(ctx, msg, args...)
}

// DebugContext logs at Debug level with context-aware fields.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).DebugContext(ctx, msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// SetDefault installs l as the slog default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
