package profile

import "github.com/silentmatt/dss-sub000/pkg"

// Tag is the build tag that enables profiling. It also names the default
// profile output subdirectory.
const Tag = "pprof"

// Config selects what to profile and where profiles are written.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option configures a [Config].
type Option = pkg.Option[Config]

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// New returns a Config with the given options applied.
func New(opts ...Option) Config { return pkg.Make(opts...) }

// Start starts the profiler. Without the pprof build tag, or when the mode
// is empty or unknown, the returned Stopper does nothing.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

// WithMode sets the profiling mode; see [Modes].
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the profile output directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

type ignore struct{}

func (ignore) Stop() {}
