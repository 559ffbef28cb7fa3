package ast

// Document is a parsed DSS source.
type Document struct {
	URL   string
	Rules []Rule
}

// Rule is a top-level entry of a [Document]: a [RuleSet] or a directive.
type Rule interface {
	Position() Position
	rule()
}

// Statement is an entry of a rule-set body: a [Declaration], a nested
// [RuleSet], a [DefineDirective] or a [ClassDirective].
type Statement interface {
	stmt()
}

// RuleSet is a selector list with a body. Condition is set on rule-sets
// nested inside a block-level @if.
type RuleSet struct {
	Condition BoolExpr
	Selectors []string
	Body      []Statement
	Pos       Position
}

// Declarations returns the declarations of the body in order.
func (r *RuleSet) Declarations() Declarations {
	var ds Declarations

	for _, s := range r.Body {
		if d, ok := s.(Declaration); ok {
			ds = append(ds, d)
		}
	}

	return ds
}

// CharsetDirective is @charset "...".
type CharsetDirective struct {
	Charset String
	Pos     Position
}

// ImportDirective is @import url [media].
type ImportDirective struct {
	URL   Term
	Media string
	Pos   Position
}

// NamespaceDirective is @namespace [prefix] url.
type NamespaceDirective struct {
	URL    Term
	Prefix string
	Pos    Position
}

// DefineDirective is @define [global] declarations.
type DefineDirective struct {
	Condition    BoolExpr
	Declarations Declarations
	Pos          Position
	Global       bool
}

// ClassDirective is @class Name(params) [global] { body }. Params without a
// default have an empty Value.
type ClassDirective struct {
	Name         string
	Params       Declarations
	Declarations Declarations
	Rules        []*RuleSet
	Pos          Position
	Global       bool
}

// FontFaceDirective is @font-face { declarations }.
type FontFaceDirective struct {
	Declarations Declarations
	Pos          Position
}

// PageDirective is @page [selector] { declarations }.
type PageDirective struct {
	Selector     string
	Declarations Declarations
	Pos          Position
}

// MediaDirective is @media query { rules }.
type MediaDirective struct {
	Query string
	Rules []Rule
	Pos   Position
}

// IfDirective is @if condition { rules } [@else { rules }].
type IfDirective struct {
	Condition BoolExpr
	Then      []Rule
	Else      []Rule
	Pos       Position
}

// IncludeDirective is @include url.
type IncludeDirective struct {
	URL Term
	Pos Position
}

// GenericDirective is any other at-rule, kept as written.
type GenericDirective struct {
	Name string
	Text string
	Pos  Position
}

func (r *RuleSet) Position() Position            { return r.Pos }
func (r *CharsetDirective) Position() Position   { return r.Pos }
func (r *ImportDirective) Position() Position    { return r.Pos }
func (r *NamespaceDirective) Position() Position { return r.Pos }
func (r *DefineDirective) Position() Position    { return r.Pos }
func (r *ClassDirective) Position() Position     { return r.Pos }
func (r *FontFaceDirective) Position() Position  { return r.Pos }
func (r *PageDirective) Position() Position      { return r.Pos }
func (r *MediaDirective) Position() Position     { return r.Pos }
func (r *IfDirective) Position() Position        { return r.Pos }
func (r *IncludeDirective) Position() Position   { return r.Pos }
func (r *GenericDirective) Position() Position   { return r.Pos }

func (*RuleSet) rule()            {}
func (*CharsetDirective) rule()   {}
func (*ImportDirective) rule()    {}
func (*NamespaceDirective) rule() {}
func (*DefineDirective) rule()    {}
func (*ClassDirective) rule()     {}
func (*FontFaceDirective) rule()  {}
func (*PageDirective) rule()      {}
func (*MediaDirective) rule()     {}
func (*IfDirective) rule()        {}
func (*IncludeDirective) rule()   {}
func (*GenericDirective) rule()   {}

func (Declaration) stmt()      {}
func (*RuleSet) stmt()         {}
func (*DefineDirective) stmt() {}
func (*ClassDirective) stmt()  {}
