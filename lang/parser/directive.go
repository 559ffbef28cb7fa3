package parser

import (
	"strings"

	"github.com/silentmatt/dss-sub000/lang/ast"
)

// parseAtRule parses a top-level at-rule.
func (p *parser) parseAtRule() (ast.Rule, error) {
	pos := p.position()

	p.advance() // skip '@'

	name := p.parseName()
	if name == "" {
		return nil, p.expected("at-rule name")
	}

	switch strings.ToLower(name) {
	case "charset":
		return p.parseCharset(pos)

	case "import":
		return p.parseImport(pos)

	case "namespace":
		return p.parseNamespace(pos)

	case "define":
		d, err := p.parseDefine(pos)
		if err != nil {
			return nil, err
		}

		return d, nil

	case "class":
		c, err := p.parseClass(pos)
		if err != nil {
			return nil, err
		}

		return c, nil

	case "font-face":
		decls, err := p.parseDeclarationBlock()
		if err != nil {
			return nil, err
		}

		return &ast.FontFaceDirective{Declarations: decls, Pos: pos}, nil

	case "page":
		sel, err := p.capture('{')
		if err != nil {
			return nil, err
		}

		decls, err := p.parseDeclarationBlock()
		if err != nil {
			return nil, err
		}

		return &ast.PageDirective{Selector: sel, Declarations: decls, Pos: pos}, nil

	case "media":
		return p.parseMedia(pos)

	case "if":
		d, err := p.parseIf(pos)
		if err != nil {
			return nil, err
		}

		return d, nil

	case "else":
		return nil, p.errorf(pos, "@else without @if")

	case "include":
		u, err := p.parseURLTerm()
		if err != nil {
			return nil, err
		}

		return &ast.IncludeDirective{URL: u, Pos: pos}, p.endStatement()
	}

	return p.parseGeneric(pos, name)
}

func (p *parser) parseCharset(pos ast.Position) (ast.Rule, error) {
	p.skipWhitespaceAndComments()

	if ch := p.peek(); ch != '"' && ch != '\'' {
		return nil, p.expected("string")
	}

	s, err := p.parseString()
	if err != nil {
		return nil, err
	}

	return &ast.CharsetDirective{Charset: s, Pos: pos}, p.endStatement()
}

func (p *parser) parseImport(pos ast.Position) (ast.Rule, error) {
	u, err := p.parseURLTerm()
	if err != nil {
		return nil, err
	}

	media, err := p.capture(';')
	if err != nil {
		return nil, err
	}

	return &ast.ImportDirective{URL: u, Media: media, Pos: pos}, p.endStatement()
}

func (p *parser) parseNamespace(pos ast.Position) (ast.Rule, error) {
	p.skipWhitespaceAndComments()

	d := &ast.NamespaceDirective{Pos: pos}

	if isNameStart(p.peek()) && p.peekWord() != "url" {
		d.Prefix = p.parseName()
	}

	u, err := p.parseURLTerm()
	if err != nil {
		return nil, err
	}

	d.URL = u

	return d, p.endStatement()
}

// parseURLTerm parses a quoted string or url(...).
func (p *parser) parseURLTerm() (ast.Term, error) {
	p.skipWhitespaceAndComments()

	switch ch := p.peek(); {
	case ch == '"' || ch == '\'':
		return p.parseString()

	case p.peekWord() == "url":
		p.parseName()

		if p.peek() == '(' {
			return p.parseURL()
		}
	}

	return nil, p.expected("url or string")
}

// parseDefine parses the rest of: @define [global] name: value; or
// @define [global] { declarations }.
func (p *parser) parseDefine(pos ast.Position) (*ast.DefineDirective, error) {
	d := &ast.DefineDirective{Pos: pos}

	p.skipWhitespaceAndComments()

	if _, named := p.peekNamed(); !named && p.acceptWord("global") {
		d.Global = true
	}

	p.skipWhitespaceAndComments()

	if p.peek() != '{' {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}

		d.Declarations = ast.Declarations{decl}

		return d, nil
	}

	decls, err := p.parseDeclarationBlock()
	if err != nil {
		return nil, err
	}

	d.Declarations = decls

	return d, nil
}

// parseClass parses the rest of: @class Name[(params)] [global] { body }.
func (p *parser) parseClass(pos ast.Position) (*ast.ClassDirective, error) {
	p.skipWhitespaceAndComments()

	name := p.parseName()
	if name == "" {
		return nil, p.expected("class name")
	}

	c := &ast.ClassDirective{Name: name, Pos: pos}

	p.skipWhitespaceAndComments()

	if p.expect('(') {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		if c.Params, err = p.toParams(args); err != nil {
			return nil, err
		}
	}

	c.Global = p.acceptWord("global")

	if err := p.require('{'); err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	if err := p.require('}'); err != nil {
		return nil, err
	}

	for _, s := range body {
		switch s := s.(type) {
		case ast.Declaration:
			c.Declarations = append(c.Declarations, s)
		case *ast.RuleSet:
			c.Rules = append(c.Rules, s)
		default:
			return nil, p.errorf(pos,
				"class %s may only contain declarations and rule-sets", name)
		}
	}

	return c, nil
}

// toParams converts a parsed argument list into formal parameters. A bare
// name declares a parameter without default, "name: value" one with.
func (p *parser) toParams(args ast.Declarations) (ast.Declarations, error) {
	params := make(ast.Declarations, 0, len(args))

	for _, a := range args {
		if a.Name == "" {
			kw, ok := singleKeyword(a.Value)
			if !ok {
				return nil, p.errorf(a.Pos, "invalid parameter %q", a.Value.String())
			}

			a.Name, a.Value = kw, nil
		}

		params = append(params, a)
	}

	return params, nil
}

func singleKeyword(e ast.Expression) (string, bool) {
	if len(e) != 1 {
		return "", false
	}

	switch t := e[0].(type) {
	case ast.Keyword:
		return t.Name, true
	case ast.Reference:
		if t.Kind == ast.RefParam {
			return t.Name, true
		}
	}

	return "", false
}

// parseDeclarationBlock parses '{' declarations '}'.
func (p *parser) parseDeclarationBlock() (ast.Declarations, error) {
	pos := p.position()

	if err := p.require('{'); err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	if err := p.require('}'); err != nil {
		return nil, err
	}

	decls := make(ast.Declarations, 0, len(body))

	for _, s := range body {
		d, ok := s.(ast.Declaration)
		if !ok {
			return nil, p.errorf(pos, "block may only contain declarations")
		}

		decls = append(decls, d)
	}

	return decls, nil
}

func (p *parser) parseMedia(pos ast.Position) (ast.Rule, error) {
	query, err := p.capture('{')
	if err != nil {
		return nil, err
	}

	p.advance() // skip '{'

	rules, err := p.parseRules(true)
	if err != nil {
		return nil, err
	}

	if err := p.require('}'); err != nil {
		return nil, err
	}

	return &ast.MediaDirective{Query: query, Rules: rules, Pos: pos}, nil
}

// parseIf parses a top-level conditional with an optional @else or
// @else if chain.
func (p *parser) parseIf(pos ast.Position) (*ast.IfDirective, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	d := &ast.IfDirective{Condition: cond, Pos: pos}

	if d.Then, err = p.parseRuleBlock(); err != nil {
		return nil, err
	}

	if !p.atElse() {
		return d, nil
	}

	elsePos := p.position()

	p.advanceN(len("@else"))

	if p.acceptWord("if") {
		nested, err := p.parseIf(elsePos)
		if err != nil {
			return nil, err
		}

		d.Else = []ast.Rule{nested}

		return d, nil
	}

	if d.Else, err = p.parseRuleBlock(); err != nil {
		return nil, err
	}

	return d, nil
}

func (p *parser) parseRuleBlock() ([]ast.Rule, error) {
	if err := p.require('{'); err != nil {
		return nil, err
	}

	rules, err := p.parseRules(true)
	if err != nil {
		return nil, err
	}

	return rules, p.require('}')
}

// parseBlockDirective parses an at-rule inside a rule-set body.
func (p *parser) parseBlockDirective() ([]ast.Statement, error) {
	pos := p.position()

	p.advance() // skip '@'

	name := p.parseName()

	switch strings.ToLower(name) {
	case "define":
		d, err := p.parseDefine(pos)
		if err != nil {
			return nil, err
		}

		return []ast.Statement{d}, nil

	case "class":
		c, err := p.parseClass(pos)
		if err != nil {
			return nil, err
		}

		return []ast.Statement{c}, nil

	case "if":
		return p.parseBlockIf(pos)
	}

	return nil, p.errorf(pos, "@%s is not allowed inside a block", name)
}

// parseBlockIf parses a conditional inside a block. The statements of
// each branch are returned with the branch condition attached.
func (p *parser) parseBlockIf(pos ast.Position) ([]ast.Statement, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	then, err := p.parseStatementBlock()
	if err != nil {
		return nil, err
	}

	out, err := p.conditioned(pos, then, cond)
	if err != nil {
		return nil, err
	}

	if !p.atElse() {
		return out, nil
	}

	elsePos := p.position()

	p.advanceN(len("@else"))

	var rest []ast.Statement

	if p.acceptWord("if") {
		rest, err = p.parseBlockIf(elsePos)
	} else {
		rest, err = p.parseStatementBlock()
	}

	if err != nil {
		return nil, err
	}

	rest, err = p.conditioned(elsePos, rest, ast.BoolNot{Operand: cond})
	if err != nil {
		return nil, err
	}

	return append(out, rest...), nil
}

func (p *parser) parseStatementBlock() ([]ast.Statement, error) {
	if err := p.require('{'); err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return body, p.require('}')
}

// conditioned attaches cond to every statement, combined with any
// condition the statement already carries.
func (p *parser) conditioned(
	pos ast.Position,
	stmts []ast.Statement,
	cond ast.BoolExpr,
) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(stmts))

	for _, s := range stmts {
		switch s := s.(type) {
		case ast.Declaration:
			s.Condition = and(cond, s.Condition)
			out = append(out, s)

		case *ast.DefineDirective:
			c := *s
			c.Condition = and(cond, c.Condition)
			out = append(out, &c)

		case *ast.RuleSet:
			c := *s
			c.Condition = and(cond, c.Condition)
			out = append(out, &c)

		default:
			return nil, p.errorf(pos, "@class is not allowed inside @if")
		}
	}

	return out, nil
}

func and(a, b ast.BoolExpr) ast.BoolExpr {
	if b == nil {
		return a
	}

	return ast.BoolAnd{Left: a, Right: b}
}

func (p *parser) atElse() bool {
	p.skipWhitespaceAndComments()

	return strings.EqualFold(p.peekN(5), "@else") &&
		!isNameChar(rune(p.peekByte(5)))
}

// Conditions: or < xor < and < not.

func (p *parser) parseCondition() (ast.BoolExpr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.BoolExpr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}

	for p.acceptWord("or") {
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}

		left = ast.BoolOr{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseXor() (ast.BoolExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.acceptWord("xor") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = ast.BoolXor{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (ast.BoolExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.acceptWord("and") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		left = ast.BoolAnd{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseNot() (ast.BoolExpr, error) {
	if p.acceptWord("not") {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return ast.BoolNot{Operand: operand}, nil
	}

	p.skipWhitespaceAndComments()

	if p.expect('(') {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		return e, p.require(')')
	}

	value, err := p.parseExpression(p.stopCondition)
	if err != nil {
		return nil, err
	}

	if len(value) == 0 {
		return nil, p.expected("condition")
	}

	return ast.BoolTerm{Value: value}, nil
}

func (p *parser) stopCondition() bool {
	if strings.ContainsRune("{}();", p.peek()) {
		return true
	}

	switch p.peekWord() {
	case "and", "or", "xor", "not":
		return true
	}

	return false
}

// parseGeneric captures an unknown at-rule verbatim up to its terminating
// semicolon or the end of its block.
func (p *parser) parseGeneric(pos ast.Position, name string) (ast.Rule, error) {
	depth := 0

	for !p.eof() {
		ch := p.peek()

		switch {
		case ch == '"' || ch == '\'':
			if err := p.skipString(ch); err != nil {
				return nil, err
			}

			continue

		case p.peekN(2) == "/*":
			p.skipBlockComment()

			continue

		case ch == '{':
			depth++

		case ch == '}':
			depth--

			if depth < 0 {
				return nil, p.unexpected()
			}

			if depth == 0 {
				p.advance()

				return p.generic(pos, name), nil
			}

		case ch == ';' && depth == 0:
			p.advance()

			return p.generic(pos, name), nil
		}

		p.advance()
	}

	if depth > 0 {
		return nil, p.expected(`"}"`)
	}

	return p.generic(pos, name), nil
}

func (p *parser) generic(pos ast.Position, name string) *ast.GenericDirective {
	return &ast.GenericDirective{
		Name: name,
		Text: strings.TrimSpace(string(p.input[pos.Offset:p.pos])),
		Pos:  pos,
	}
}
