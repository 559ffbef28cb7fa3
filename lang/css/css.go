// Package css defines the plain-CSS output tree produced by evaluation and
// its serializations.
package css

// Stylesheet is an ordered list of output rules.
type Stylesheet struct {
	Rules []Rule
}

// Rule is a node of the output tree: a [RuleSet], an [AtRule] or [Raw] text.
type Rule interface {
	rule()
}

// Declaration is a property and its fully substituted value text.
type Declaration struct {
	Name      string
	Value     string
	Important bool
}

// RuleSet is a selector list with declarations.
type RuleSet struct {
	Selectors    []string
	Declarations []Declaration
}

// AtRule is an at-rule. A rule without Block is written as a statement
// terminated by a semicolon, such as @charset or @import.
type AtRule struct {
	Name         string
	Prelude      string
	Declarations []Declaration
	Rules        []Rule
	Block        bool
}

// Raw is text passed through unchanged.
type Raw struct {
	Text string
}

func (*RuleSet) rule() {}
func (*AtRule) rule()  {}
func (*Raw) rule()     {}
