package eval

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/calc"
)

// substitution is a single pass over an expression.
//
// Constant references always resolve. Parameter references resolve only
// when withParams is set and a class is being applied. Property references
// resolve against container. When doCalc is set the pass is final: calc()
// terms are evaluated and references that cannot be resolved are reported
// and dropped instead of being kept for a later pass. strictParams reports
// parameter references outside a class even when the pass is not final.
type substitution struct {
	st         *State
	ctx        context.Context
	container  ast.Declarations
	pos        ast.Position
	active     map[string]bool
	withParams   bool
	doCalc       bool
	strictParams bool
}

// substitute returns e with references, calls and calculations replaced.
// The separator of a replaced term is carried onto the first term of its
// replacement.
func (st *State) substitute(
	ctx context.Context,
	e ast.Expression,
	container ast.Declarations,
	withParams, doCalc bool,
	pos ast.Position,
) ast.Expression {
	return st.newSubstitution(ctx, container, withParams, doCalc, pos).expr(e)
}

// substituteArgument substitutes a class argument in the caller's context.
// Outside a class a parameter reference cannot be resolved later, since the
// bound value is read inside the callee's parameter scope.
func (st *State) substituteArgument(
	ctx context.Context,
	e ast.Expression,
	container ast.Declarations,
	pos ast.Position,
) ast.Expression {
	s := st.newSubstitution(ctx, container, true, false, pos)
	s.strictParams = st.params == nil

	return s.expr(e)
}

func (st *State) newSubstitution(
	ctx context.Context,
	container ast.Declarations,
	withParams, doCalc bool,
	pos ast.Position,
) *substitution {
	return &substitution{
		st:         st,
		ctx:        ctx,
		container:  container,
		pos:        pos,
		active:     make(map[string]bool),
		withParams: withParams,
		doCalc:     doCalc,
	}
}

func (s *substitution) expr(e ast.Expression) ast.Expression {
	out := make(ast.Expression, 0, len(e))
	for _, t := range e {
		out = append(out, s.term(t)...)
	}

	return out
}

func (s *substitution) term(t ast.Term) ast.Expression {
	switch t := t.(type) {
	case ast.Reference:
		return s.reference(t)

	case ast.Call:
		return s.call(t)

	case ast.ClassReference:
		if len(t.Args) == 0 {
			return ast.Expression{t}
		}

		args := t.Args.Clone()
		for i := range args {
			args[i].Value = s.expr(args[i].Value)
		}

		t.Args = args

		return ast.Expression{t}

	case ast.Calculation:
		return s.calculation(t)
	}

	return ast.Expression{t}
}

func (s *substitution) reference(r ast.Reference) ast.Expression {
	switch r.Kind {
	case ast.RefConst:
		v, ok := s.st.vars.Get(r.Name)
		if !ok {
			s.st.errorf(s.ctx,
				undefined(ErrUndefinedConst, r.Name, s.st.vars.Names()), s.pos)

			return nil
		}

		return ast.Splice(v, r.Separator)

	case ast.RefParam:
		if !s.withParams || s.st.params == nil {
			if s.doCalc || s.strictParams {
				s.st.errorf(s.ctx, ErrInvalidParameter.With(
					slog.String("name", r.Name),
					slog.String("reason", "not inside a class"),
				), s.pos)

				return nil
			}

			return ast.Expression{r}
		}

		b, ok := s.st.params.Get(r.Name)
		if !ok {
			s.st.errorf(s.ctx,
				undefined(ErrInvalidParameter, r.Name, s.st.params.Names()), s.pos)

			return nil
		}

		if !b.bound {
			s.st.errorf(s.ctx,
				ErrMissingRequiredParameter.With(slog.String("name", r.Name)), s.pos)

			return nil
		}

		return ast.Splice(s.nested("param:"+r.Name, b.value), r.Separator)

	case ast.RefProp:
		d, ok := s.container.Get(r.Name)
		if !ok || s.active["prop:"+r.Name] {
			if s.doCalc {
				s.st.errorf(s.ctx,
					ErrUndefinedProperty.With(slog.String("name", r.Name)), s.pos)

				return nil
			}

			return ast.Expression{r}
		}

		return ast.Splice(s.nested("prop:"+r.Name, d.Value), r.Separator)
	}

	return ast.Expression{r}
}

// nested substitutes a spliced parameter or property value, which may
// itself refer to other parameters or properties. A value that refers back
// to itself is spliced unchanged.
func (s *substitution) nested(key string, e ast.Expression) ast.Expression {
	if s.active[key] {
		return e
	}

	s.active[key] = true
	defer delete(s.active, key)

	return s.expr(e)
}

func (s *substitution) call(c ast.Call) ast.Expression {
	c.Args = s.expr(c.Args)

	fn, ok := s.st.cfg.Functions[c.Name]
	if !ok {
		fn, ok = s.st.builtins[strings.ToLower(c.Name)]
	}

	if ok {
		if out, ok := fn(c.Args); ok {
			return ast.Splice(out, c.Separator)
		}
	}

	return ast.Expression{c}
}

// calcState records whether every leaf of a calc expression substituted
// to a single term.
type calcState uint8

const (
	calcOK calcState = iota
	calcInvalid
	calcDropped
)

func (s *substitution) calculation(c ast.Calculation) ast.Expression {
	e, state := s.calcExpr(c.Expr)
	if state == calcDropped {
		return nil
	}

	c.Expr = e

	if state != calcOK || !s.doCalc {
		return ast.Expression{c}
	}

	v, err := calc.Eval(e)
	if err == nil {
		var n ast.Number
		if n, err = v.Term(); err == nil {
			n.Separator = c.Separator

			return ast.Expression{n}
		}
	}

	if !errors.Is(err, ErrCalc) {
		err = ErrCalc.With(slog.String("expression", e.String())).Wrap(err)
	}

	s.st.errorf(s.ctx, err, s.pos)

	return ast.Expression{c}
}

// calcExpr substitutes the leaves of a calc expression. A leaf must expand
// to exactly one term; a nested calc() is inlined. A leaf that expands to
// nothing has already been reported, and the whole calc() is dropped.
func (s *substitution) calcExpr(e ast.CalcExpr) (ast.CalcExpr, calcState) {
	switch e := e.(type) {
	case ast.CalcBinary:
		l, ls := s.calcExpr(e.Left)
		r, rs := s.calcExpr(e.Right)

		return ast.CalcBinary{Left: l, Right: r, Op: e.Op}, max(ls, rs)

	case ast.CalcNegate:
		x, state := s.calcExpr(e.Operand)

		return ast.CalcNegate{Operand: x}, state

	case ast.CalcTerm:
		sub := s.term(e.Term.WithSep(ast.SepNone))

		switch len(sub) {
		case 0:
			return e, calcDropped
		case 1:
			if c, ok := sub[0].(ast.Calculation); ok {
				return c.Expr, calcOK
			}

			return ast.CalcTerm{Term: sub[0]}, calcOK
		}

		if s.doCalc {
			s.st.errorf(s.ctx, ErrCalc.With(
				slog.String("reason", "operand expands to more than one term"),
				slog.String("operand", sub.String()),
			), s.pos)
		}

		return e, calcInvalid
	}

	return e, calcOK
}
