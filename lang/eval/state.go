package eval

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/color"
	"github.com/silentmatt/dss-sub000/lang/css"
	"github.com/silentmatt/dss-sub000/lang/resource"
	"github.com/silentmatt/dss-sub000/lang/scope"
	"github.com/silentmatt/dss-sub000/log"
)

// DefaultMaxDepth bounds nested class application.
const DefaultMaxDepth = 100

// Config holds the collaborators of a [State].
type Config struct {
	// Functions are consulted before the built-in color functions.
	Functions map[string]ast.Function
	// Locator opens @include targets. Defaults to [resource.Default].
	Locator resource.Locator
	// Sink receives diagnostics. Defaults to a [Collector] reachable
	// through [State.Sink].
	Sink     Sink
	Logger   log.Logger
	MaxDepth int
}

// binding is a class parameter. A parameter without a default stays
// unbound until an argument is supplied.
type binding struct {
	value ast.Expression
	bound bool
}

// visible is a rule-set that ruleset(...) can refer to.
type visible struct {
	selectors []string
	rule      *ast.RuleSet
}

// State is the mutable context of an evaluation. Constants and classes
// persist across calls to [State.Evaluate], which lets an interactive
// session build on earlier input.
type State struct {
	cfg      Config
	builtins map[string]ast.Function
	sink     Sink
	vars     *scope.Scope[ast.Expression]
	classes  *scope.Scope[*ast.ClassDirective]
	params   *scope.Scope[binding]
	bases    []string
	visible  [][]visible
	depth    int
}

// New returns a State with empty global scopes.
func New(cfg Config) *State {
	if cfg.Locator == nil {
		cfg.Locator = resource.Default{}
	}

	if cfg.Sink == nil {
		cfg.Sink = &Collector{}
	}

	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}

	return &State{
		cfg:      cfg,
		builtins: color.Builtins(),
		sink:     cfg.Sink,
		vars:     scope.NewGlobal[ast.Expression](nil),
		classes:  scope.NewGlobal[*ast.ClassDirective](nil),
		visible:  [][]visible{nil},
	}
}

// Sink returns the sink diagnostics are reported to.
func (st *State) Sink() Sink { return st.cfg.Sink }

// Define declares a global constant, replacing an earlier definition.
func (st *State) Define(name string, value ast.Expression) {
	st.vars.Global().Declare(name, value)
}

// Constant returns the value of a visible constant.
func (st *State) Constant(name string) (ast.Expression, bool) {
	return st.vars.Get(name)
}

// Constants returns the names of all visible constants, sorted.
func (st *State) Constants() []string { return sorted(st.vars.Names()) }

// Classes returns the names of all visible classes, sorted.
func (st *State) Classes() []string { return sorted(st.classes.Names()) }

// Class returns the visible class named name.
func (st *State) Class(name string) (*ast.ClassDirective, bool) {
	return st.classes.Get(name)
}

// Functions returns the names of all callable functions, sorted.
func (st *State) Functions() []string {
	names := slices.Collect(maps.Keys(st.builtins))
	for name := range st.cfg.Functions {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return sorted(names)
}

// Evaluate evaluates the rules of doc and returns the output rules.
func (st *State) Evaluate(ctx context.Context, doc *ast.Document) []css.Rule {
	leave := st.enterBase(ctx, doc.URL)
	defer leave()

	return st.evalRules(ctx, doc.Rules, nil)
}

// enterBlock pushes a constant scope, a class scope and a visibility level.
func (st *State) enterBlock(ctx context.Context) func() {
	vars, classes := st.vars, st.classes
	st.vars = scope.New(vars)
	st.classes = scope.New(classes)
	st.visible = append(st.visible, nil)

	st.cfg.Logger.TraceContext(ctx, "enter block",
		slog.Int("level", len(st.visible)))

	return func() {
		st.vars, st.classes = vars, classes
		st.visible = st.visible[:len(st.visible)-1]

		st.cfg.Logger.TraceContext(ctx, "leave block",
			slog.Int("level", len(st.visible)))
	}
}

// enterBase pushes the base URL relative references resolve against.
func (st *State) enterBase(ctx context.Context, url string) func() {
	st.bases = append(st.bases, url)

	st.cfg.Logger.TraceContext(ctx, "enter base", slog.String("url", url))

	return func() {
		st.bases = st.bases[:len(st.bases)-1]
	}
}

// enterParams installs a parameter scope for the duration of a class
// application.
func (st *State) enterParams(params *scope.Scope[binding]) func() {
	saved := st.params
	st.params = params
	st.depth++

	return func() {
		st.params = saved
		st.depth--
	}
}

// base returns the current base URL.
func (st *State) base() string {
	if len(st.bases) == 0 {
		return ""
	}

	return st.bases[len(st.bases)-1]
}

// register makes rs visible to ruleset(...) references in the current level.
func (st *State) register(selectors []string, rs *ast.RuleSet) {
	top := len(st.visible) - 1
	st.visible[top] = append(st.visible[top], visible{selectors: selectors, rule: rs})
}

func (st *State) errorf(ctx context.Context, err error, pos ast.Position) {
	st.report(ctx, SeverityError, err, pos)
}

func (st *State) warnf(ctx context.Context, err error, pos ast.Position) {
	st.report(ctx, SeverityWarning, err, pos)
}

func (st *State) report(ctx context.Context, sev Severity, err error, pos ast.Position) {
	if sev == SeverityWarning {
		st.sink.ReportWarning(err, pos)
	} else {
		st.sink.ReportError(err, pos)
	}

	if _, ok := st.sink.(*capture); ok {
		return
	}

	level := log.LevelError
	if sev == SeverityWarning {
		level = log.LevelWarn
	}

	st.cfg.Logger.LogContext(ctx, level, "evaluation "+sev.String(),
		slog.Any("diagnostic", Diagnostic{Err: err, Pos: pos, Severity: sev}))
}

func sorted(names []string) []string {
	slices.Sort(names)

	return slices.Compact(names)
}
