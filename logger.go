package bitvec

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used across bitvec.
// The in-memory BitSet never logs; the redis backend, the bloom filter and
// the ecs registry do.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger writing human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger writing JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithKey adds the redis key field.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key),
	}
}

// WithComponent adds a component name field.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// LogRedisOp logs the outcome of a redis bitset operation.
func (l *Logger) LogRedisOp(ctx context.Context, op, key string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "redis bitset operation failed",
			"op", op,
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "redis bitset operation completed",
		"op", op,
		"key", key,
	)
}

var defaultLogger = NoopLogger()

// SetDefaultLogger replaces the logger used by components that were not
// given one explicitly. A nil logger restores the no-op logger.
func SetDefaultLogger(l *Logger) {
	if l == nil {
		l = NoopLogger()
	}
	defaultLogger = l
}

// DefaultLogger returns the package default logger.
func DefaultLogger() *Logger {
	return defaultLogger
}
