package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of doc to w, one node per line.
func Fprint(w io.Writer, doc *Document) error {
	p := treePrinter{w: bufio.NewWriter(w)}

	p.line(0, "Document %q", doc.URL)

	for _, r := range doc.Rules {
		p.rule(1, r)
	}

	return p.w.Flush()
}

type treePrinter struct {
	w *bufio.Writer
}

func (p treePrinter) line(depth int, format string, args ...any) {
	p.w.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(p.w, format, args...)
	p.w.WriteByte('\n')
}

func (p treePrinter) rule(depth int, r Rule) {
	switch r := r.(type) {
	case *RuleSet:
		p.ruleSet(depth, r)

	case *CharsetDirective:
		p.line(depth, "Charset %s [%s]", r.Charset, r.Pos)

	case *ImportDirective:
		p.line(depth, "Import %s %q [%s]", r.URL, r.Media, r.Pos)

	case *NamespaceDirective:
		p.line(depth, "Namespace %q %s [%s]", r.Prefix, r.URL, r.Pos)

	case *DefineDirective:
		p.define(depth, r)

	case *ClassDirective:
		p.class(depth, r)

	case *FontFaceDirective:
		p.line(depth, "FontFace [%s]", r.Pos)
		p.declarations(depth+1, r.Declarations)

	case *PageDirective:
		p.line(depth, "Page %q [%s]", r.Selector, r.Pos)
		p.declarations(depth+1, r.Declarations)

	case *MediaDirective:
		p.line(depth, "Media %q [%s]", r.Query, r.Pos)

		for _, c := range r.Rules {
			p.rule(depth+1, c)
		}

	case *IfDirective:
		p.line(depth, "If %s [%s]", r.Condition, r.Pos)

		for _, c := range r.Then {
			p.rule(depth+1, c)
		}

		if len(r.Else) > 0 {
			p.line(depth, "Else")

			for _, c := range r.Else {
				p.rule(depth+1, c)
			}
		}

	case *IncludeDirective:
		p.line(depth, "Include %s [%s]", r.URL, r.Pos)

	case *GenericDirective:
		p.line(depth, "Directive @%s %q [%s]", r.Name, r.Text, r.Pos)
	}
}

func (p treePrinter) ruleSet(depth int, r *RuleSet) {
	p.line(depth, "RuleSet %q%s [%s]", strings.Join(r.Selectors, ", "), when(r.Condition), r.Pos)

	for _, s := range r.Body {
		switch s := s.(type) {
		case Declaration:
			p.declaration(depth+1, s)
		case *RuleSet:
			p.ruleSet(depth+1, s)
		case *DefineDirective:
			p.define(depth+1, s)
		case *ClassDirective:
			p.class(depth+1, s)
		}
	}
}

func (p treePrinter) define(depth int, d *DefineDirective) {
	p.line(depth, "Define%s%s [%s]", global(d.Global), when(d.Condition), d.Pos)
	p.declarations(depth+1, d.Declarations)
}

func (p treePrinter) class(depth int, c *ClassDirective) {
	params := make([]string, len(c.Params))
	for i, d := range c.Params {
		params[i] = d.Name
		if len(d.Value) > 0 {
			params[i] += ": " + d.Value.String()
		}
	}

	p.line(depth, "Class %s(%s)%s [%s]", c.Name, strings.Join(params, "; "), global(c.Global), c.Pos)
	p.declarations(depth+1, c.Declarations)

	for _, r := range c.Rules {
		p.ruleSet(depth+1, r)
	}
}

func (p treePrinter) declarations(depth int, ds Declarations) {
	for _, d := range ds {
		p.declaration(depth, d)
	}
}

func (p treePrinter) declaration(depth int, d Declaration) {
	p.line(depth, "Declaration %s%s [%s]", d, when(d.Condition), d.Pos)
}

func when(c BoolExpr) string {
	if c == nil {
		return ""
	}

	return " if " + c.String()
}

func global(g bool) string {
	if g {
		return " global"
	}

	return ""
}
