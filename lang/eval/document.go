package eval

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/css"
)

// pending is a rule waiting in the evaluation queue. Rules spliced in by
// @include carry the URL of their document and the chain of includes that
// led to it.
type pending struct {
	rule  ast.Rule
	base  string
	chain []string
}

// evalRules evaluates rules in order. An @include is replaced in the queue
// by the rules of the included document.
func (st *State) evalRules(ctx context.Context, rules []ast.Rule, parent []string) []css.Rule {
	queue := make([]pending, len(rules))
	for i, r := range rules {
		queue[i] = pending{rule: r}
	}

	out := make([]css.Rule, 0, len(rules))

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if inc, ok := next.rule.(*ast.IncludeDirective); ok {
			included, ok := st.include(ctx, inc, next)
			if !ok {
				out = append(out, &css.Raw{Text: "@include " + inc.URL.String() + ";"})

				continue
			}

			queue = append(included, queue...)

			continue
		}

		out = append(out, st.evalPending(ctx, next, parent)...)
	}

	return out
}

func (st *State) evalPending(ctx context.Context, p pending, parent []string) []css.Rule {
	if p.base != "" {
		leave := st.enterBase(ctx, p.base)
		defer leave()
	}

	return st.evalRule(ctx, p.rule, parent)
}

// evalRuleSet evaluates a rule-set and its nested rule-sets. The rule-set
// itself is emitted first, and only when it has declarations left.
func (st *State) evalRuleSet(ctx context.Context, rs *ast.RuleSet, parent []string) []css.Rule {
	if !st.guard(ctx, rs.Condition, rs.Pos) {
		return nil
	}

	selectors := combine(parent, rs.Selectors)
	st.register(selectors, rs)

	leave := st.enterBlock(ctx)
	defer leave()

	decls, nested := st.expand(ctx, rs.Body)
	final := st.finalize(ctx, decls)

	out := make([]css.Rule, 0, 1+len(nested))
	if len(final) > 0 {
		out = append(out, &css.RuleSet{Selectors: selectors, Declarations: final})
	}

	for _, n := range nested {
		out = append(out, st.evalRuleSet(ctx, n, selectors)...)
	}

	return out
}

// expand is the first pass over a block: definitions take effect, classes
// are applied and references are substituted, leaving calculations and
// forward property references for finalize.
func (st *State) expand(ctx context.Context, body []ast.Statement) (ast.Declarations, []*ast.RuleSet) {
	var (
		decls  ast.Declarations
		nested []*ast.RuleSet
	)

	for _, s := range body {
		switch s := s.(type) {
		case ast.Declaration:
			if !st.guard(ctx, s.Condition, s.Pos) {
				continue
			}

			if isInherit(s.Name) {
				decls, nested = st.extend(ctx, s, decls, nested)

				continue
			}

			s.Value = st.substitute(ctx, s.Value, decls, st.params != nil, false, s.Pos)
			s.Condition = nil
			decls = append(decls, s)

		case *ast.RuleSet:
			nested = append(nested, s)

		case *ast.DefineDirective:
			st.evalDefine(ctx, s)

		case *ast.ClassDirective:
			st.evalClass(ctx, s)
		}
	}

	return decls, nested
}

// finalize is the last pass over a block. Declarations whose value
// substitutes to nothing are dropped.
func (st *State) finalize(ctx context.Context, decls ast.Declarations) []css.Declaration {
	out := make([]css.Declaration, 0, len(decls))

	for _, d := range decls {
		v := st.substitute(ctx, d.Value, decls, st.params != nil, true, d.Pos)
		if len(v) == 0 {
			continue
		}

		out = append(out, css.Declaration{
			Name:      d.Name,
			Value:     v.String(),
			Important: d.Important,
		})
	}

	return out
}

// declarations runs both passes over a flat declaration block.
func (st *State) declarations(ctx context.Context, ds ast.Declarations) []css.Declaration {
	body := make([]ast.Statement, len(ds))
	for i, d := range ds {
		body[i] = d
	}

	decls, _ := st.expand(ctx, body)

	return st.finalize(ctx, decls)
}

// combine joins nested selectors to their parent selectors. A selector
// containing '&' has it replaced by the parent; any other selector becomes
// a descendant of the parent.
func combine(parent, selectors []string) []string {
	if len(parent) == 0 {
		return selectors
	}

	out := make([]string, 0, len(parent)*len(selectors))

	for _, p := range parent {
		for _, s := range selectors {
			if strings.Contains(s, "&") {
				out = append(out, strings.ReplaceAll(s, "&", p))
			} else {
				out = append(out, p+" "+s)
			}
		}
	}

	return slices.Compact(out)
}

func (st *State) traceRule(ctx context.Context, kind string, pos ast.Position) {
	st.cfg.Logger.TraceContext(ctx, "evaluate rule",
		slog.String("kind", kind),
		slog.Any("pos", pos))
}
