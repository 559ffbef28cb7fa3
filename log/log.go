package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/silentmatt/dss-sub000/pkg"
)

// Logger writes leveled structured records. It is an immutable value and
// safe for concurrent use. The zero Logger discards everything.
type Logger struct {
	h   slog.Handler
	cfg config
}

// Make returns a Logger writing to w, configured by opts on top of the
// defaults: [DefaultLevel], [DefaultFormat], [DefaultTimeLayout], pretty
// printing on and caller info off.
func Make(w io.Writer, opts ...Option) Logger {
	return makeLogger(pkg.Apply(defaultConfig(w), opts...))
}

func makeLogger(cfg config) Logger {
	return Logger{h: cfg.handler(), cfg: cfg}
}

// Wrap returns a Logger with opts applied on top of the receiver's
// configuration. Attributes added with [Logger.With] are dropped because the
// handler is rebuilt.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.h == nil {
		return Make(io.Discard, opts...)
	}

	return makeLogger(pkg.Apply(l.cfg, opts...))
}

// With returns a Logger that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.h != nil {
		l.h = l.h.WithAttrs(attrs)
	}

	return l
}

// Level returns the minimum level written.
func (l Logger) Level() Level {
	if l.h == nil {
		return DefaultLevel
	}

	return l.cfg.level
}

// Format returns the record encoding.
func (l Logger) Format() Format {
	if l.h == nil {
		return DefaultFormat
	}

	return l.cfg.format
}

// Enabled reports whether records at level would be written.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.h != nil && l.h.Enabled(ctx, slog.Level(level))
}

// Slog returns a [slog.Logger] sharing the receiver's handler.
func (l Logger) Slog() *slog.Logger {
	if l.h == nil {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(l.h)
}

// TraceContext logs at [LevelTrace].
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug].
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo].
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn].
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError].
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// LogContext logs at an arbitrary level.
func (l Logger) LogContext(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	l.log(ctx, level, msg, attrs)
}

// log writes a record attributed to the caller of the exported method or
// function that called it.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr

	// runtime.Callers, log, exported wrapper
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)

	_ = l.h.Handle(ctx, r)
}
