// Package profile provides optional runtime profiling for the dss compiler.
//
// Profiling uses [github.com/pkg/profile] and is only compiled in when the
// binary is built with the "pprof" build tag:
//
//	go build -tags pprof -o dss .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// stopper, so callers never need build tags of their own.
//
// # Modes
//
//   - allocs, heap, mem: memory profiling
//   - block, mutex: contention profiling
//   - clock, cpu: wall-clock and CPU profiling
//   - goroutine, thread: goroutine and thread creation profiling
//   - trace: execution trace
//
// # Command line
//
//	dss --pprof-mode cpu compile 'styles/**/*.dss'
//	dss --pprof-mode heap --pprof-dir ./profiles compile site.dss
//
// Profiles are written to the cache directory by default and can be
// inspected with "go tool pprof".
package profile
