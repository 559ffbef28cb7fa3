package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/silentmatt/dss-sub000/lang"
	"github.com/silentmatt/dss-sub000/lang/ast"
)

// Fmt compiles a single source and prints it in the chosen format.
type Fmt struct {
	CSS  CSS  `cmd:"" default:"withargs" help:"Print the compiled CSS (default)."`
	JSON JSON `cmd:""                    help:"Print the output tree as JSON."`
	YAML YAML `cmd:""                    help:"Print the output tree as YAML."`
	AST  AST  `cmd:""                    help:"Print the input tree."`
}

// CSS prints the compiled stylesheet.
type CSS struct {
	Indent int `default:"2" help:"Indent width for formatted output; 0 writes one rule per line" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the css command.
func (f *CSS) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := compileFormat(ctx, f.Source, "css")
	if err != nil {
		return err
	}

	return res.Stylesheet.Format(ctx, os.Stdout, f.Indent)
}

// JSON prints the output tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := compileFormat(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return res.Stylesheet.FormatJSON(ctx, os.Stdout, j.Indent)
}

// YAML prints the output tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 writes flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := compileFormat(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return res.Stylesheet.FormatYAML(ctx, os.Stdout, y.Indent)
}

// AST prints the parsed input tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := compileFormat(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return ast.Fprint(os.Stdout, res.Document)
}

// compileFormat compiles the named source for a fmt subcommand. Error
// diagnostics are logged but do not prevent printing.
func compileFormat(ctx context.Context, name, format string) (*lang.Result, error) {
	var src source
	if name != stdinSource {
		src.path = name
	}

	res, err := compileSource(ctx, src)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("format", format))
	}

	return res, nil
}
