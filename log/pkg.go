package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// defaultLog is the logger behind the package-level functions.
var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Config replaces the default logger with one that has opts applied on top
// of its current configuration.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// Default returns the current default logger.
func Default() Logger { return *defaultLog.Load() }

// TraceContext logs at [LevelTrace] with the default logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug] with the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo] with the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn] with the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError] with the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelError, msg, attrs)
}

// Error logs at [LevelError] with the default logger and a background
// context.
func Error(msg string, attrs ...slog.Attr) {
	Default().log(context.Background(), LevelError, msg, attrs)
}
