package lang

import (
	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/eval"
	"github.com/silentmatt/dss-sub000/lang/resource"
	"github.com/silentmatt/dss-sub000/log"
)

// DefaultMaxDepth bounds nested class application.
const DefaultMaxDepth = eval.DefaultMaxDepth

// Option configures compilation.
type Option func(*config)

type config struct {
	functions  map[string]ast.Function
	defines    map[string]string
	locator    resource.Locator
	logger     log.Logger
	baseURL    string
	searchPath []string
	maxDepth   int
}

// WithBaseURL sets the URL of the compiled source. Relative @include
// targets resolve against it, and diagnostics report it.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithFunctions adds functions callable from declaration values. They take
// precedence over the built-in color functions of the same name.
func WithFunctions(fns map[string]ast.Function) Option {
	return func(c *config) {
		if c.functions == nil {
			c.functions = make(map[string]ast.Function, len(fns))
		}

		for name, fn := range fns {
			c.functions[name] = fn
		}
	}
}

// WithDefines pre-declares global constants. Each value is parsed as a DSS
// declaration value.
func WithDefines(defines map[string]string) Option {
	return func(c *config) {
		if c.defines == nil {
			c.defines = make(map[string]string, len(defines))
		}

		for name, value := range defines {
			c.defines[name] = value
		}
	}
}

// WithLocator replaces the locator used to open @include targets.
func WithLocator(l resource.Locator) Option {
	return func(c *config) { c.locator = l }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxDepth bounds nested class application.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithSearchPath sets the directories searched for relative @include
// targets that are not found next to the including document. It has no
// effect when a locator is set with [WithLocator].
func WithSearchPath(dirs ...string) Option {
	return func(c *config) { c.searchPath = append(c.searchPath, dirs...) }
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	if c.locator == nil {
		c.locator = resource.Default{SearchPath: c.searchPath}
	}

	return c
}
