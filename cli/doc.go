// Package cli contains the command line interface for dss.
//
// # Usage
//
//	dss [flags] [compile] [<input> ...]
//	dss fmt {css,json,yaml,ast} [<source>]
//	dss repl [<source> ...]
//	dss init [--force]
//
// Inputs are files, globs (doublestar syntax, e.g. "styles/**/*.dss"), or
// "-" for stdin. Compiling several inputs writes one .css file per input
// into the --output directory.
//
// # Compiler Options
//
//   - --define/-D name=value: constant visible to every source
//   - --include-path/-I dir: directory searched by @include and @import,
//     ahead of the entries of $DSS_PATH
//   - --max-depth: maximum nesting of class and rule-set application
//
// # Configuration
//
// Flag defaults are read from config.jsonc and config.yaml in the user
// configuration directory. Keys are flag names with hyphens replaced by
// underscores. The init command writes config.yaml from the current flag
// values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// Compiler diagnostics are reported through the logger.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o dss .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/dss/pprof)
package cli
