// Package log provides the structured logger used throughout dss. It is a thin
// immutable layer over [log/slog].
//
// A [Logger] is a value type. The zero value discards everything, so library
// code can hold a Logger field without checking whether one was configured.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("compiled", slog.String("file", name))
//
// Configuration is applied with functional options: [WithLevel],
// [WithFormat], [WithTimeLayout], [WithCaller], [WithPretty] and
// [WithOutput]. [Logger.Wrap] derives a logger with overridden options, and
// [Logger.With] one that carries extra attributes.
//
// # Levels
//
// In addition to the four slog levels there is [LevelTrace], used by the
// evaluator for per-rule tracing.
//
// # Package-level logger
//
// The package-level functions ([InfoContext], [WarnContext], [ErrorContext], ...) write
// through a default logger that the CLI reconfigures with [Config].
// [Error] logs with a background context.
//
// # Output formats
//
// [FormatJSON] (default) and [FormatText]. With pretty printing enabled both
// formats are colorized, and JSON records are indented.
package log
