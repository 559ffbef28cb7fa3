package ast

import "strings"

// Expression is an ordered sequence of terms. Order and separators are
// significant.
type Expression []Term

// String returns the CSS text of the expression.
func (e Expression) String() string {
	var sb strings.Builder

	for i, t := range e {
		if i > 0 {
			switch t.Sep() {
			case SepComma:
				sb.WriteString(", ")
			case SepSlash, SepEquals:
				sb.WriteByte(byte(t.Sep()))
			default:
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(t.String())
	}

	return sb.String()
}

// Split divides the expression at comma separators. The first term of each
// part has its separator cleared.
func (e Expression) Split() []Expression {
	if len(e) == 0 {
		return nil
	}

	var (
		parts []Expression
		cur   Expression
	)

	for i, t := range e {
		if i > 0 && t.Sep() == SepComma {
			parts = append(parts, cur)
			cur = nil
		}

		if len(cur) == 0 {
			t = t.WithSep(SepNone)
		}

		cur = append(cur, t)
	}

	return append(parts, cur)
}

// Join concatenates expressions with comma separators.
func Join(parts ...Expression) Expression {
	var out Expression

	for i, p := range parts {
		for j, t := range p {
			if j == 0 && i > 0 {
				t = t.WithSep(SepComma)
			}

			out = append(out, t)
		}
	}

	return out
}

// Splice returns terms with the first term's separator replaced by sep.
func Splice(terms Expression, sep Separator) Expression {
	if len(terms) == 0 {
		return nil
	}

	out := make(Expression, len(terms))
	copy(out, terms)
	out[0] = out[0].WithSep(sep)

	return out
}

// CalcExpr is a node of a calc(...) expression.
type CalcExpr interface {
	String() string
	calc()
}

// CalcBinary is a binary arithmetic operation. Op is one of '+', '-', '*'
// and '/'.
type CalcBinary struct {
	Left, Right CalcExpr
	Op          byte
}

// CalcNegate is unary minus.
type CalcNegate struct {
	Operand CalcExpr
}

// CalcTerm is a leaf of a calc expression: a number or a reference.
type CalcTerm struct {
	Term Term
}

func (CalcBinary) calc() {}
func (CalcNegate) calc() {}
func (CalcTerm) calc()   {}

func precedence(e CalcExpr) int {
	if b, ok := e.(CalcBinary); ok {
		if b.Op == '+' || b.Op == '-' {
			return 1
		}

		return 2
	}

	return 3
}

func (e CalcBinary) String() string {
	p := precedence(e)
	left, right := e.Left.String(), e.Right.String()

	if precedence(e.Left) < p {
		left = "(" + left + ")"
	}

	// Right operands of equal precedence need grouping for - and /.
	if rp := precedence(e.Right); rp < p || (rp == p && (e.Op == '-' || e.Op == '/')) {
		right = "(" + right + ")"
	}

	return left + " " + string(e.Op) + " " + right
}

func (e CalcNegate) String() string {
	s := e.Operand.String()
	if precedence(e.Operand) < 3 {
		s = "(" + s + ")"
	}

	return "-" + s
}

func (e CalcTerm) String() string { return e.Term.String() }

// BoolExpr is a node of an @if condition.
type BoolExpr interface {
	String() string
	boolean()
}

// BoolAnd, BoolOr and BoolXor are binary boolean operations.
type (
	BoolAnd struct{ Left, Right BoolExpr }
	BoolOr  struct{ Left, Right BoolExpr }
	BoolXor struct{ Left, Right BoolExpr }
)

// BoolNot negates its operand.
type BoolNot struct {
	Operand BoolExpr
}

// BoolTerm is a value whose truthiness is tested.
type BoolTerm struct {
	Value Expression
}

func (BoolAnd) boolean()  {}
func (BoolOr) boolean()   {}
func (BoolXor) boolean()  {}
func (BoolNot) boolean()  {}
func (BoolTerm) boolean() {}

func (e BoolAnd) String() string {
	return "(" + e.Left.String() + " and " + e.Right.String() + ")"
}

func (e BoolOr) String() string {
	return "(" + e.Left.String() + " or " + e.Right.String() + ")"
}

func (e BoolXor) String() string {
	return "(" + e.Left.String() + " xor " + e.Right.String() + ")"
}

func (e BoolNot) String() string { return "not " + e.Operand.String() }

func (e BoolTerm) String() string { return e.Value.String() }

// Function computes a replacement expression from already substituted
// arguments. It returns false to decline, in which case the call is kept
// as written.
type Function func(args Expression) (Expression, bool)
