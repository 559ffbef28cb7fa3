package ast

import (
	"strconv"
	"strings"
)

// Separator is the character written before a term in an expression.
// The zero value means the term is separated by whitespace.
type Separator byte

// Separators recognized between terms.
const (
	SepNone   Separator = 0
	SepComma  Separator = ','
	SepSlash  Separator = '/'
	SepEquals Separator = '='
)

// Term is a single immutable value in an [Expression].
type Term interface {
	// Sep returns the separator preceding the term.
	Sep() Separator
	// WithSep returns a copy of the term with its separator replaced.
	WithSep(sep Separator) Term
	// String returns the CSS text of the term without its separator.
	String() string

	term()
}

// RefKind distinguishes the namespaces a [Reference] resolves in.
type RefKind uint8

// Reference kinds.
const (
	RefConst RefKind = iota
	RefParam
	RefProp
)

var refKindName = map[RefKind]string{
	RefConst: "const",
	RefParam: "param",
	RefProp:  "prop",
}

func (k RefKind) String() string { return refKindName[k] }

// Number is a numeric literal with an optional unit ("px", "%", "em", ...).
type Number struct {
	Unit      string
	Raw       string
	Value     float64
	Separator Separator
}

// String is a quoted string literal. Value holds the text between the
// quotes exactly as written, escapes included.
type String struct {
	Value     string
	Quote     rune
	Separator Separator
}

// Keyword is any bare token that is not otherwise classified: identifiers,
// operators and vendor hacks.
type Keyword struct {
	Name      string
	Separator Separator
}

// URL is a url(...) token. Value is the text between the parentheses.
type URL struct {
	Value     string
	Separator Separator
}

// Hex is a hash color literal without the leading '#'.
type Hex struct {
	Value     string
	Separator Separator
}

// Call is a function call such as rgb(1, 2, 3) or lighten(#fff, 10%).
type Call struct {
	Name      string
	Args      Expression
	Separator Separator
}

// Reference is a const(name), param(name) or prop(name) lookup.
type Reference struct {
	Name      string
	Kind      RefKind
	Separator Separator
}

// ClassReference names a class in an extend or apply declaration, with
// optional call-style arguments. Positional arguments have an empty Name.
type ClassReference struct {
	Name      string
	Args      Declarations
	HasArgs   bool
	Separator Separator
}

// RuleSetReference is the ruleset(selector) pseudo class.
type RuleSetReference struct {
	Selector  string
	Separator Separator
}

// Calculation is a calc(...) term.
type Calculation struct {
	Expr      CalcExpr
	Separator Separator
}

func (t Number) Sep() Separator           { return t.Separator }
func (t String) Sep() Separator           { return t.Separator }
func (t Keyword) Sep() Separator          { return t.Separator }
func (t URL) Sep() Separator              { return t.Separator }
func (t Hex) Sep() Separator              { return t.Separator }
func (t Call) Sep() Separator             { return t.Separator }
func (t Reference) Sep() Separator        { return t.Separator }
func (t ClassReference) Sep() Separator   { return t.Separator }
func (t RuleSetReference) Sep() Separator { return t.Separator }
func (t Calculation) Sep() Separator      { return t.Separator }

func (t Number) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t String) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t Keyword) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t URL) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t Hex) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t Call) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t Reference) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t ClassReference) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t RuleSetReference) WithSep(s Separator) Term {
	t.Separator = s

	return t
}
func (t Calculation) WithSep(s Separator) Term {
	t.Separator = s

	return t
}

func (Number) term()           {}
func (String) term()           {}
func (Keyword) term()          {}
func (URL) term()              {}
func (Hex) term()              {}
func (Call) term()             {}
func (Reference) term()        {}
func (ClassReference) term()   {}
func (RuleSetReference) term() {}
func (Calculation) term()      {}

func (t Number) String() string {
	if t.Raw != "" {
		return t.Raw
	}

	return FormatNumber(t.Value) + t.Unit
}

func (t String) String() string {
	q := string(t.Quote)
	if t.Quote == 0 {
		q = `"`
	}

	return q + t.Value + q
}

func (t Keyword) String() string { return t.Name }
func (t URL) String() string     { return "url(" + t.Value + ")" }
func (t Hex) String() string     { return "#" + t.Value }

func (t Call) String() string {
	return t.Name + "(" + t.Args.String() + ")"
}

func (t Reference) String() string {
	return t.Kind.String() + "(" + t.Name + ")"
}

func (t ClassReference) String() string {
	if !t.HasArgs {
		return t.Name
	}

	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		if a.Name == "" {
			args[i] = a.Value.String()
		} else {
			args[i] = a.Name + ": " + a.Value.String()
		}
	}

	return t.Name + "(" + strings.Join(args, "; ") + ")"
}

func (t RuleSetReference) String() string {
	return "ruleset(" + t.Selector + ")"
}

func (t Calculation) String() string {
	if t.Expr == nil {
		return "calc()"
	}

	return "calc(" + t.Expr.String() + ")"
}

// FormatNumber formats f with at most six decimal places and no trailing
// zeros.
func FormatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	if s == "-0" || s == "" {
		return "0"
	}

	return s
}
