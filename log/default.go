package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger = Make(os.Stderr)
	defaultMutex  sync.RWMutex
)

// Default returns the package-level [Logger].
func Default() Logger {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()

	return defaultLogger
}

// Config replaces the package-level [Logger] configuration.
// Options are applied on top of the current configuration, so callers
// may adjust a single setting without resetting the rest.
func Config(opts ...Option) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()

	defaultLogger = defaultLogger.Wrap(opts...)
}

// TraceContext logs a message at Trace level with the provided context
// using the package-level [Logger].
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

// Trace logs a message at Trace level using the package-level [Logger].
func Trace(msg string, attrs ...slog.Attr) {
	Default().TraceContext(context.TODO(), msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context
// using the package-level [Logger].
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

// Debug logs a message at Debug level using the package-level [Logger].
func Debug(msg string, attrs ...slog.Attr) {
	Default().DebugContext(context.TODO(), msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context
// using the package-level [Logger].
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

// Info logs a message at Info level using the package-level [Logger].
func Info(msg string, attrs ...slog.Attr) {
	Default().InfoContext(context.TODO(), msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context
// using the package-level [Logger].
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(ctx, msg, attrs...)
}

// Warn logs a message at Warn level using the package-level [Logger].
func Warn(msg string, attrs ...slog.Attr) {
	Default().WarnContext(context.TODO(), msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context
// using the package-level [Logger].
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}

// Error logs a message at Error level using the package-level [Logger].
func Error(msg string, attrs ...slog.Attr) {
	Default().ErrorContext(context.TODO(), msg, attrs...)
}
