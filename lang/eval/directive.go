package eval

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/lang/css"
	"github.com/silentmatt/dss-sub000/lang/parser"
)

// evalRule evaluates one rule-set or directive.
func (st *State) evalRule(ctx context.Context, r ast.Rule, parent []string) []css.Rule {
	switch r := r.(type) {
	case *ast.RuleSet:
		return st.evalRuleSet(ctx, r, parent)

	case *ast.CharsetDirective:
		st.traceRule(ctx, "charset", r.Pos)

		return []css.Rule{&css.AtRule{Name: "charset", Prelude: r.Charset.String()}}

	case *ast.ImportDirective:
		st.traceRule(ctx, "import", r.Pos)

		prelude := r.URL.String()
		if r.Media != "" {
			prelude += " " + r.Media
		}

		return []css.Rule{&css.AtRule{Name: "import", Prelude: prelude}}

	case *ast.NamespaceDirective:
		st.traceRule(ctx, "namespace", r.Pos)

		prelude := r.URL.String()
		if r.Prefix != "" {
			prelude = r.Prefix + " " + prelude
		}

		return []css.Rule{&css.AtRule{Name: "namespace", Prelude: prelude}}

	case *ast.DefineDirective:
		st.evalDefine(ctx, r)

	case *ast.ClassDirective:
		st.evalClass(ctx, r)

	case *ast.FontFaceDirective:
		st.traceRule(ctx, "font-face", r.Pos)

		return []css.Rule{&css.AtRule{
			Name:         "font-face",
			Declarations: st.declarations(ctx, r.Declarations),
			Block:        true,
		}}

	case *ast.PageDirective:
		st.traceRule(ctx, "page", r.Pos)

		return []css.Rule{&css.AtRule{
			Name:         "page",
			Prelude:      r.Selector,
			Declarations: st.declarations(ctx, r.Declarations),
			Block:        true,
		}}

	case *ast.MediaDirective:
		return st.evalMedia(ctx, r, parent)

	case *ast.IfDirective:
		st.traceRule(ctx, "if", r.Pos)

		ok, valid := st.condition(ctx, r.Condition, r.Pos)
		if !valid {
			return nil
		}

		if ok {
			return st.evalRules(ctx, r.Then, parent)
		}

		return st.evalRules(ctx, r.Else, parent)

	case *ast.IncludeDirective:
		return st.evalRules(ctx, []ast.Rule{r}, parent)

	case *ast.GenericDirective:
		st.traceRule(ctx, r.Name, r.Pos)

		return []css.Rule{&css.Raw{Text: r.Text}}
	}

	return nil
}

// evalDefine declares the constants of a @define. Values are fully
// evaluated, calculations included.
func (st *State) evalDefine(ctx context.Context, d *ast.DefineDirective) {
	if !st.guard(ctx, d.Condition, d.Pos) {
		return
	}

	st.traceRule(ctx, "define", d.Pos)

	for _, decl := range d.Declarations {
		if !st.guard(ctx, decl.Condition, decl.Pos) {
			continue
		}

		value := st.substitute(ctx, decl.Value, nil, st.params != nil, true, decl.Pos)

		if !d.Global {
			st.vars.Declare(decl.Name, value)

			continue
		}

		if err := st.vars.Global().Put(decl.Name, value); err != nil {
			st.errorf(ctx, err, decl.Pos)
		}
	}
}

// evalClass declares a class. Constants in its body are resolved where the
// class is defined; parameters, properties and calculations are resolved
// each time it is applied.
func (st *State) evalClass(ctx context.Context, c *ast.ClassDirective) {
	st.traceRule(ctx, "class", c.Pos)

	cls := *c
	cls.Params = c.Params.Clone()

	for i, p := range cls.Params {
		cls.Params[i].Value = st.substitute(ctx, p.Value, nil, false, false, p.Pos)
	}

	cls.Declarations = make(ast.Declarations, 0, len(c.Declarations))
	for _, d := range c.Declarations {
		d.Value = st.substitute(ctx, d.Value, cls.Declarations, false, false, d.Pos)
		cls.Declarations = append(cls.Declarations, d)
	}

	if !c.Global {
		st.classes.Declare(c.Name, &cls)

		return
	}

	if err := st.classes.Global().Put(c.Name, &cls); err != nil {
		st.errorf(ctx, err, c.Pos)
	}
}

// evalMedia evaluates the rules of a @media block in a child scope. The
// block is emitted only when it produces rules.
func (st *State) evalMedia(ctx context.Context, m *ast.MediaDirective, parent []string) []css.Rule {
	st.traceRule(ctx, "media", m.Pos)

	leave := st.enterBlock(ctx)
	defer leave()

	rules := st.evalRules(ctx, m.Rules, parent)
	if len(rules) == 0 {
		return nil
	}

	return []css.Rule{&css.AtRule{
		Name:    "media",
		Prelude: st.interpolate(m.Query),
		Rules:   rules,
		Block:   true,
	}}
}

var constRef = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_-]*)`)

// interpolate replaces @name constant references in raw text such as a
// media query. Unknown names are left as written.
func (st *State) interpolate(s string) string {
	return constRef.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := st.vars.Get(m[1:]); ok {
			return v.String()
		}

		return m
	})
}

// include fetches and parses the target of an @include and returns its
// rules queued for evaluation in place of the directive. Only the base URL
// changes: the included rules share the includer's constants and classes.
func (st *State) include(ctx context.Context, inc *ast.IncludeDirective, from pending) ([]pending, bool) {
	base := from.base
	if base == "" {
		base = st.base()
	}

	url := st.cfg.Locator.Resolve(base, includeTarget(inc.URL))
	chain := append(slices.Clone(st.bases), from.chain...)

	st.cfg.Logger.TraceContext(ctx, "include",
		slog.String("url", url),
		slog.String("base", base),
		slog.Int("depth", len(chain)))

	if slices.Contains(chain, url) {
		st.errorf(ctx, ErrIO.With(slog.String("url", url)).Wrap(ErrRecursiveInclude), inc.Pos)

		return nil, false
	}

	rc, err := st.cfg.Locator.Open(ctx, url)
	if err != nil {
		if !errors.Is(err, ErrIO) {
			err = ErrIO.With(slog.String("url", url)).Wrap(err)
		}

		st.errorf(ctx, err, inc.Pos)

		return nil, false
	}
	defer rc.Close()

	doc, err := parser.ParseReader(ctx, rc,
		parser.WithURL(url),
		parser.WithLogger(st.cfg.Logger))
	if err != nil {
		st.errorf(ctx, ErrIO.With(slog.String("url", url)).Wrap(err), inc.Pos)

		return nil, false
	}

	next := append(slices.Clone(from.chain), url)

	out := make([]pending, len(doc.Rules))
	for i, r := range doc.Rules {
		out[i] = pending{rule: r, base: url, chain: next}
	}

	return out, true
}

// includeTarget returns the reference named by an @include argument.
func includeTarget(t ast.Term) string {
	switch t := t.(type) {
	case ast.String:
		return t.Value
	case ast.URL:
		return strings.Trim(t.Value, `"'`)
	}

	return t.String()
}
