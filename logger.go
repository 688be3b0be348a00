package locio

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with locio-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithID adds an id field to the logger.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// WithKind adds a kind field to the logger.
func (l *Logger) WithKind(kind Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind.String()),
	}
}

// LogOpen logs a handle open.
func (l *Logger) LogOpen(ctx context.Context, id, backend string, err error) {
	if err != nil {
		l.DebugContext(ctx, "open failed",
			"id", id,
			"backend", backend,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "opened handle",
			"id", id,
			"backend", backend,
		)
	}
}

// LogReconnect logs a remote stream reconnect.
func (l *Logger) LogReconnect(ctx context.Context, id string, offset int64) {
	l.DebugContext(ctx, "stream reconnected",
		"id", id,
		"offset", offset,
	)
}

// LogListing logs a directory listing.
func (l *Logger) LogListing(ctx context.Context, path string, entries int, cached bool) {
	l.DebugContext(ctx, "listed directory",
		"path", path,
		"entries", entries,
		"cached", cached,
	)
}

// LogCache logs a remote object cache lookup or download.
func (l *Logger) LogCache(ctx context.Context, uri, path string, err error) {
	if err != nil {
		l.WarnContext(ctx, "caching remote object failed",
			"uri", uri,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remote object cached",
			"uri", uri,
			"path", path,
		)
	}
}
