package eval

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/silentmatt/dss-sub000/lang/ast"
)

// guard reports whether an optional condition holds. An invalid condition
// does not hold.
func (st *State) guard(ctx context.Context, cond ast.BoolExpr, pos ast.Position) bool {
	if cond == nil {
		return true
	}

	ok, valid := st.condition(ctx, cond, pos)

	return ok && valid
}

// condition evaluates an @if condition. Every operand is substituted and
// reduced to its truthiness; the boolean structure is compiled to an expr
// program over those operands. valid is false, and ErrInvalidCondition is
// reported, when an operand fails to substitute or the program fails.
func (st *State) condition(ctx context.Context, cond ast.BoolExpr, pos ast.Position) (ok, valid bool) {
	captured := &capture{}
	sink := st.sink
	st.sink = captured

	env := make(map[string]any)
	src := st.conditionSource(ctx, cond, env, pos)

	st.sink = sink

	for _, d := range captured.Diagnostics.Warnings() {
		st.warnf(ctx, d.Err, d.Pos)
	}

	if errs := captured.Diagnostics.Errors(); len(errs) > 0 {
		st.errorf(ctx, ErrInvalidCondition.With(
			slog.String("condition", cond.String()),
		).Wrap(errs[0].Err), pos)

		return false, false
	}

	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		st.errorf(ctx, ErrInvalidCondition.With(
			slog.String("condition", cond.String()),
		).Wrap(err), pos)

		return false, false
	}

	out, err := expr.Run(program, env)
	if err != nil {
		st.errorf(ctx, ErrInvalidCondition.With(
			slog.String("condition", cond.String()),
		).Wrap(err), pos)

		return false, false
	}

	ok, _ = out.(bool)

	st.cfg.Logger.TraceContext(ctx, "condition",
		slog.String("condition", cond.String()),
		slog.String("program", src),
		slog.Bool("result", ok))

	return ok, true
}

// conditionSource writes cond as expr source. Each operand becomes a
// variable t<n> in env holding its truthiness.
func (st *State) conditionSource(
	ctx context.Context,
	cond ast.BoolExpr,
	env map[string]any,
	pos ast.Position,
) string {
	binary := func(l, r ast.BoolExpr, op string) string {
		return "(" + st.conditionSource(ctx, l, env, pos) + " " + op + " " +
			st.conditionSource(ctx, r, env, pos) + ")"
	}

	switch c := cond.(type) {
	case ast.BoolAnd:
		return binary(c.Left, c.Right, "and")
	case ast.BoolOr:
		return binary(c.Left, c.Right, "or")
	case ast.BoolXor:
		return binary(c.Left, c.Right, "!=")
	case ast.BoolNot:
		return "(not " + st.conditionSource(ctx, c.Operand, env, pos) + ")"
	case ast.BoolTerm:
		v := st.substitute(ctx, c.Value, nil, st.params != nil, true, pos)
		name := "t" + strconv.Itoa(len(env))
		env[name] = truthy(v)

		return name
	}

	return "nil"
}

// truthy reports whether a substituted value counts as true. Empty values,
// zero, empty strings and the keywords false, no, off, none and null are
// false.
func truthy(v ast.Expression) bool {
	if len(v) != 1 {
		return len(v) > 1
	}

	switch t := v[0].(type) {
	case ast.Number:
		return t.Value != 0
	case ast.String:
		return t.Value != ""
	case ast.Keyword:
		switch strings.ToLower(t.Name) {
		case "false", "no", "off", "none", "null", "":
			return false
		}
	}

	return true
}
