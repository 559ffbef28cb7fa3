package lang

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/css"
	"github.com/silentmatt/dss-sub000/lang/eval"
	"github.com/silentmatt/dss-sub000/lang/parser"
	"github.com/silentmatt/dss-sub000/pkg"
)

// Errors returned by compilation.
var (
	ErrReadInput = pkg.NewError("failed to read input")
	ErrDefine    = pkg.NewError("invalid define")
)

// Result is the outcome of compiling one source.
type Result struct {
	// Stylesheet is the plain CSS output.
	Stylesheet *css.Stylesheet
	// Document is the parsed source.
	Document *ast.Document
	// Diagnostics lists the problems found during evaluation.
	Diagnostics eval.Diagnostics
}

// Err returns the error diagnostics, or nil when there are only warnings.
func (r *Result) Err() error { return r.Diagnostics.Err() }

// Compile compiles DSS source text.
func Compile(ctx context.Context, src string, opts ...Option) (*Result, error) {
	s, err := NewSession(opts...)
	if err != nil {
		return nil, err
	}

	return s.Eval(ctx, src)
}

// CompileReader compiles DSS source read from r.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	return Compile(ctx, string(data), opts...)
}

// CompileFile compiles the DSS file at path. The path is the base URL
// unless another one is given with [WithBaseURL].
func CompileFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	return Compile(ctx, string(data), append([]Option{WithBaseURL(path)}, opts...)...)
}

// Session evaluates a sequence of sources that share constants and classes.
type Session struct {
	state *eval.State
	sink  *eval.Collector
	cfg   config
}

// NewSession returns a session with the given options. Defines are parsed
// and declared up front.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{cfg: makeConfig(opts...)}

	if err := s.Reset(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Reset discards everything declared by earlier calls to [Session.Eval].
func (s *Session) Reset(ctx context.Context) error {
	s.sink = &eval.Collector{}
	s.state = eval.New(eval.Config{
		Functions: s.cfg.functions,
		Locator:   s.cfg.locator,
		Sink:      s.sink,
		Logger:    s.cfg.logger,
		MaxDepth:  s.cfg.maxDepth,
	})

	for _, name := range slices.Sorted(maps.Keys(s.cfg.defines)) {
		value, err := parser.ParseExpression(ctx, s.cfg.defines[name],
			parser.WithURL("define:"+name),
			parser.WithLogger(s.cfg.logger))
		if err != nil {
			return ErrDefine.Wrap(err).With(slog.String("name", name))
		}

		s.state.Define(name, value)
	}

	return nil
}

// Eval parses and evaluates src in the session. The returned diagnostics
// are those reported for src alone.
func (s *Session) Eval(ctx context.Context, src string) (*Result, error) {
	return s.eval(ctx, src, s.cfg.baseURL)
}

// EvalFile reads the DSS file at path and evaluates it in the session, with
// path as its base URL.
func (s *Session) EvalFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	return s.eval(ctx, string(data), path)
}

func (s *Session) eval(ctx context.Context, src, url string) (*Result, error) {
	s.cfg.logger.TraceContext(ctx, "compile start",
		slog.String("url", url),
		slog.Int("source_length", len(src)))

	doc, err := parser.Parse(ctx, src,
		parser.WithURL(url),
		parser.WithLogger(s.cfg.logger))
	if err != nil {
		return nil, err
	}

	mark := len(s.sink.Diagnostics)
	rules := s.state.Evaluate(ctx, doc)

	r := &Result{
		Stylesheet:  &css.Stylesheet{Rules: rules},
		Document:    doc,
		Diagnostics: slices.Clone(s.sink.Diagnostics[mark:]),
	}

	s.cfg.logger.TraceContext(ctx, "compile complete",
		slog.String("url", url),
		slog.Int("rule_count", len(rules)),
		slog.Int("diagnostic_count", len(r.Diagnostics)))

	return r, nil
}

// Constants returns the names of the session's constants.
func (s *Session) Constants() []string { return s.state.Constants() }

// Constant returns the CSS text of a constant.
func (s *Session) Constant(name string) (string, bool) {
	v, ok := s.state.Constant(name)
	if !ok {
		return "", false
	}

	return v.String(), true
}

// Classes returns the names of the session's classes.
func (s *Session) Classes() []string { return s.state.Classes() }

// ClassParams returns the parameter names of a class.
func (s *Session) ClassParams(name string) ([]string, bool) {
	c, ok := s.state.Class(name)
	if !ok {
		return nil, false
	}

	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = p.Name
	}

	return params, true
}

// Functions returns the names of the callable functions.
func (s *Session) Functions() []string { return s.state.Functions() }
