package parser

import (
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
)

// parseCalcSum parses: product (('+' | '-') product)*.
func (p *parser) parseCalcSum() (ast.CalcExpr, error) {
	left, err := p.parseCalcProduct()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespaceAndComments()

		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}

		p.advance()

		right, err := p.parseCalcProduct()
		if err != nil {
			return nil, err
		}

		left = ast.CalcBinary{Op: byte(op), Left: left, Right: right}
	}
}

// parseCalcProduct parses: unary (('*' | '/') unary)*.
func (p *parser) parseCalcProduct() (ast.CalcExpr, error) {
	left, err := p.parseCalcUnary()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespaceAndComments()

		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}

		p.advance()

		right, err := p.parseCalcUnary()
		if err != nil {
			return nil, err
		}

		left = ast.CalcBinary{Op: byte(op), Left: left, Right: right}
	}
}

// parseCalcUnary parses a parenthesized sum, a negation or a leaf term.
func (p *parser) parseCalcUnary() (ast.CalcExpr, error) {
	p.skipWhitespaceAndComments()

	switch ch := p.peek(); {
	case ch == '(':
		p.advance()

		e, err := p.parseCalcSum()
		if err != nil {
			return nil, err
		}

		return e, p.require(')')

	case ch == '-' && !p.atNumber():
		p.advance()

		operand, err := p.parseCalcUnary()
		if err != nil {
			return nil, err
		}

		return ast.CalcNegate{Operand: operand}, nil

	case ch == '+' && !p.atNumber():
		p.advance()

		return p.parseCalcUnary()

	case p.eof() || strings.ContainsRune(")*/;{},", ch):
		return nil, p.expected("calc operand")
	}

	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	return ast.CalcTerm{Term: t}, nil
}
