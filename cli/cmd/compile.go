package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/silentmatt/dss-sub000/lang"
	"github.com/silentmatt/dss-sub000/log"
	"github.com/silentmatt/dss-sub000/pkg"
)

// Compile compiles DSS sources to CSS.
type Compile struct {
	Output  string   `help:"Output file, or directory receiving one .css file per input" short:"o" type:"path"`
	Inputs  []string `arg:""     default:"-"                                                   help:"Input files or globs (src/**/*.dss), '-' for stdin" name:"input" optional:""`
	Indent  int      `default:"2" help:"Indent width of the CSS output"                       short:"i"`
	Compact bool     `help:"Write each rule on a single line"`
	Werror  bool     `help:"Treat warnings as errors"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := expandSources(c.Inputs)
	if err != nil {
		return err
	}

	indent := c.Indent
	if c.Compact {
		indent = 0
	}

	dir, err := c.outputDir(len(srcs))
	if err != nil {
		return err
	}

	if dir != "" {
		if err := checkCollisions(srcs); err != nil {
			return err
		}
	}

	var out io.Writer = os.Stdout

	if c.Output != "" && dir == "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("path", c.Output))
		}
		defer f.Close()

		out = f
	}

	failed := 0

	for _, src := range srcs {
		res, err := compileSource(ctx, src)
		if err != nil {
			log.ErrorContext(ctx, "compile failed",
				slog.String("source", src.String()),
				slog.Any("error", err))

			failed++

			continue
		}

		if res.Diagnostics.HasErrors() || (c.Werror && len(res.Diagnostics) > 0) {
			failed++
		}

		if dir != "" {
			path := filepath.Join(dir, cssName(src))

			f, err := os.Create(path)
			if err != nil {
				return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
			}

			err = res.Stylesheet.Format(ctx, f, indent)
			if cerr := f.Close(); err == nil {
				err = cerr
			}

			if err != nil {
				return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
			}

			log.DebugContext(ctx, "wrote stylesheet",
				slog.String("source", src.String()),
				slog.String("path", path))

			continue
		}

		if err := res.Stylesheet.Format(ctx, out, indent); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("source", src.String()))
		}
	}

	if failed > 0 {
		return ErrCompile.With(
			slog.Int("failed", failed),
			slog.Int("inputs", len(srcs)),
		)
	}

	return nil
}

// outputDir returns the directory receiving one file per input, or "" when
// all output goes to a single writer. The output is a directory when it
// already is one, when it ends in a path separator, or when there are
// several inputs.
func (c *Compile) outputDir(inputs int) (string, error) {
	if c.Output == "" {
		return "", nil
	}

	if info, err := os.Stat(c.Output); err == nil && info.IsDir() {
		return c.Output, nil
	}

	if !strings.HasSuffix(c.Output, string(filepath.Separator)) && inputs <= 1 {
		return "", nil
	}

	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return "", ErrWriteOutput.Wrap(err).With(slog.String("path", c.Output))
	}

	return c.Output, nil
}

// checkCollisions fails when two inputs would write the same file in the
// output directory.
func checkCollisions(srcs []source) error {
	seen := make(map[string]source, len(srcs))

	for _, src := range srcs {
		name := cssName(src)

		if prev, ok := seen[name]; ok {
			return ErrOutputCollision.With(
				slog.String("output", name),
				slog.String("first", prev.String()),
				slog.String("second", src.String()),
			)
		}

		seen[name] = src
	}

	return nil
}

// compileSource compiles one input with the options stored in ctx. Files
// are their own base URL, so relative includes resolve next to them.
func compileSource(ctx context.Context, src source) (*lang.Result, error) {
	r, err := src.open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var opts []lang.Option
	if !src.isStdin() {
		opts = append(opts, lang.WithBaseURL(src.path))
	}

	return lang.CompileReader(ctx, r, optionsFrom(ctx, opts...)...)
}

// cssName returns the output file name for src: its base name with the DSS
// extension replaced by .css.
func cssName(src source) string {
	if src.isStdin() {
		return "stdin.css"
	}

	base := filepath.Base(src.path)
	if ext := filepath.Ext(base); strings.EqualFold(ext, pkg.Extension) {
		base = strings.TrimSuffix(base, ext)
	}

	return base + ".css"
}
