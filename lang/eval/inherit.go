package eval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/scope"
)

// isInherit reports whether a declaration named name pulls in classes.
func isInherit(name string) bool {
	return strings.EqualFold(name, "extend") || strings.EqualFold(name, "apply")
}

// extend applies the classes listed in d and appends what they contribute
// to decls and nested. Properties declared in the block before d are not
// overridden; properties contributed by several targets of d are all kept,
// so the last one wins in the output.
func (st *State) extend(
	ctx context.Context,
	d ast.Declaration,
	decls ast.Declarations,
	nested []*ast.RuleSet,
) (ast.Declarations, []*ast.RuleSet) {
	present := make(map[string]bool, len(decls))
	for _, x := range decls {
		present[x.Name] = true
	}

	for _, t := range d.Value {
		cls, args, ok := st.resolveClass(ctx, t, d.Pos)
		if !ok {
			continue
		}

		inherited, rules := st.applyClass(ctx, cls, args, decls, d.Pos)

		for _, x := range inherited {
			if !present[x.Name] {
				decls = append(decls, x)
			}
		}

		nested = append(nested, rules...)
	}

	return decls, nested
}

// resolveClass looks up the class an extend target refers to.
func (st *State) resolveClass(
	ctx context.Context,
	t ast.Term,
	pos ast.Position,
) (*ast.ClassDirective, ast.Declarations, bool) {
	var name string

	switch t := t.(type) {
	case ast.ClassReference:
		cls, ok := st.classes.Get(t.Name)
		if ok {
			return cls, t.Args, true
		}

		name = t.Name

	case ast.Keyword:
		cls, ok := st.classes.Get(t.Name)
		if ok {
			return cls, nil, true
		}

		name = t.Name

	case ast.RuleSetReference:
		if cls, ok := st.ruleSetClass(t.Selector); ok {
			return cls, nil, true
		}

		st.errorf(ctx, ErrUnknownClass.With(
			slog.String("selector", t.Selector)), pos)

		return nil, nil, false

	default:
		st.errorf(ctx, ErrUnknownClass.With(
			slog.String("name", t.String())), pos)

		return nil, nil, false
	}

	st.errorf(ctx, undefined(ErrUnknownClass, name, st.classes.Names()), pos)

	return nil, nil, false
}

// ruleSetClass builds a class from every visible rule-set whose selector
// matches selector exactly, outermost level first.
func (st *State) ruleSetClass(selector string) (*ast.ClassDirective, bool) {
	cls := &ast.ClassDirective{Name: "ruleset(" + selector + ")"}
	found := false

	for _, level := range st.visible {
		for _, v := range level {
			if !matchSelector(v, selector) {
				continue
			}

			found = true

			for _, s := range v.rule.Body {
				switch s := s.(type) {
				case ast.Declaration:
					cls.Declarations = append(cls.Declarations, s)
				case *ast.RuleSet:
					cls.Rules = append(cls.Rules, s)
				}
			}
		}
	}

	return cls, found
}

func matchSelector(v visible, selector string) bool {
	if strings.Join(v.rule.Selectors, ", ") == selector ||
		strings.Join(v.selectors, ", ") == selector {
		return true
	}

	for _, s := range v.selectors {
		if s == selector {
			return true
		}
	}

	return false
}

// applyClass binds args to the parameters of cls and returns its
// substituted declarations and nested rule-sets. Calculations are left for
// the final pass of the block the class is applied to.
func (st *State) applyClass(
	ctx context.Context,
	cls *ast.ClassDirective,
	args ast.Declarations,
	container ast.Declarations,
	pos ast.Position,
) (ast.Declarations, []*ast.RuleSet) {
	if st.depth >= st.cfg.MaxDepth {
		st.errorf(ctx, ErrMaxDepth.With(
			slog.String("class", cls.Name),
			slog.Int("limit", st.cfg.MaxDepth),
		), pos)

		return nil, nil
	}

	st.cfg.Logger.TraceContext(ctx, "apply class",
		slog.String("class", cls.Name),
		slog.Int("depth", st.depth+1))

	params := st.bind(ctx, cls, args, container)

	leave := st.enterParams(params)
	defer leave()

	var (
		decls  ast.Declarations
		nested []*ast.RuleSet
	)

	for _, d := range cls.Declarations {
		if !st.guard(ctx, d.Condition, d.Pos) {
			continue
		}

		if isInherit(d.Name) {
			decls, nested = st.extend(ctx, d, decls, nested)

			continue
		}

		d.Value = st.substitute(ctx, d.Value, decls, true, false, d.Pos)
		d.Condition = nil
		decls = append(decls, d)
	}

	for _, rs := range cls.Rules {
		nested = append(nested, st.bindRuleSet(ctx, rs))
	}

	return decls, nested
}

// bind creates the parameter scope for one application of cls. Argument
// values are substituted in the caller's context.
func (st *State) bind(
	ctx context.Context,
	cls *ast.ClassDirective,
	args ast.Declarations,
	container ast.Declarations,
) *scope.Scope[binding] {
	params := scope.New[binding](nil)
	for _, p := range cls.Params {
		params.Declare(p.Name, binding{value: p.Value, bound: len(p.Value) > 0})
	}

	named := false
	next := 0

	for _, a := range args {
		value := st.substituteArgument(ctx, a.Value, container, a.Pos)

		if a.Name != "" {
			named = true

			if err := params.Put(a.Name, binding{value: value, bound: true}); err != nil {
				st.warnf(ctx, ErrUnknownParameter.With(
					slog.String("class", cls.Name),
					slog.String("name", a.Name),
				).Wrap(err), a.Pos)
			}

			continue
		}

		if named {
			st.errorf(ctx, ErrPositionalAfterNamed.With(
				slog.String("class", cls.Name),
				slog.String("value", value.String()),
			), a.Pos)

			continue
		}

		if next >= len(cls.Params) {
			st.warnf(ctx, ErrTooManyArguments.With(
				slog.String("class", cls.Name),
				slog.Int("expected", len(cls.Params)),
			), a.Pos)

			continue
		}

		_ = params.Put(cls.Params[next].Name, binding{value: value, bound: true})
		next++
	}

	return params
}

// bindRuleSet returns a copy of a class's nested rule-set with the current
// parameters substituted into its declarations.
func (st *State) bindRuleSet(ctx context.Context, rs *ast.RuleSet) *ast.RuleSet {
	out := &ast.RuleSet{
		Condition: rs.Condition,
		Selectors: rs.Selectors,
		Pos:       rs.Pos,
		Body:      make([]ast.Statement, 0, len(rs.Body)),
	}

	var decls ast.Declarations

	for _, s := range rs.Body {
		switch s := s.(type) {
		case ast.Declaration:
			s.Value = st.substitute(ctx, s.Value, decls, true, false, s.Pos)
			decls = append(decls, s)
			out.Body = append(out.Body, s)
		case *ast.RuleSet:
			out.Body = append(out.Body, st.bindRuleSet(ctx, s))
		default:
			out.Body = append(out.Body, s)
		}
	}

	return out
}
