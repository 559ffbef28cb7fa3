// Package parser turns DSS source text into an [ast.Document].
//
// The recognizer is a hand-written recursive-descent parser over the raw
// input bytes. Selectors, media queries and unknown at-rules are captured as
// normalized text; declaration values are split into typed terms.
package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/silentmatt/dss-sub000/lang/ast"
	"github.com/silentmatt/dss-sub000/log"
	"github.com/silentmatt/dss-sub000/pkg"
)

// ErrParse is returned for malformed input.
var ErrParse = pkg.NewError("parse error")

// Option configures a parse.
type Option func(*parser)

// WithURL sets the URL recorded in the document and in every position.
func WithURL(url string) Option {
	return func(p *parser) { p.url = url }
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// ParseReader parses a document from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*ast.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses a document from a string.
func Parse(ctx context.Context, s string, opts ...Option) (*ast.Document, error) {
	p := &parser{
		input: []byte(s),
		pos:   0,
		line:  1,
		col:   1,
	}

	for _, opt := range opts {
		opt(p)
	}

	rules, err := p.parseRules(false)
	if err != nil {
		p.logger.DebugContext(ctx, "parse failed",
			slog.String("url", p.url),
			slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("url", p.url),
		slog.Int("rule_count", len(rules)))

	return &ast.Document{URL: p.url, Rules: rules}, nil
}

// ParseExpression parses a single declaration value, such as the right
// hand side of a command line define.
func ParseExpression(ctx context.Context, s string, opts ...Option) (ast.Expression, error) {
	p := &parser{input: []byte(s), line: 1, col: 1}

	for _, opt := range opts {
		opt(p)
	}

	e, err := p.parseExpression(func() bool { return false })
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	if !p.eof() {
		return nil, p.unexpected()
	}

	p.logger.TraceContext(ctx, "parsed expression", slog.String("value", e.String()))

	return e, nil
}

// parser holds the parser state.
type parser struct {
	logger log.Logger
	url    string
	input  []byte
	pos    int
	line   int
	col    int
}

// parseRules parses rules until end of input, or until the closing brace of
// a nested rule list, which is left unconsumed.
func (p *parser) parseRules(nested bool) ([]ast.Rule, error) {
	rules := make([]ast.Rule, 0)

	for {
		p.skipWhitespaceAndComments()

		switch {
		case p.eof():
			if nested {
				return nil, p.expected(`"}"`)
			}

			return rules, nil

		case p.peek() == '}':
			if nested {
				return rules, nil
			}

			return nil, p.unexpected()

		case p.peek() == ';':
			p.advance()

			continue

		case p.peekN(4) == "<!--":
			p.advanceN(4)

			continue

		case p.peekN(3) == "-->":
			p.advanceN(3)

			continue
		}

		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}

		rules = append(rules, r)
	}
}

func (p *parser) parseRule() (ast.Rule, error) {
	if p.peek() == '@' {
		return p.parseAtRule()
	}

	return p.parseRuleSet()
}

// parseRuleSet parses: selectors '{' body '}'.
func (p *parser) parseRuleSet() (*ast.RuleSet, error) {
	pos := p.position()

	text, err := p.capture('{')
	if err != nil {
		return nil, err
	}

	selectors := splitSelectors(text)
	if len(selectors) == 0 {
		return nil, p.errorf(pos, "missing selector")
	}

	p.advance() // skip '{'

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	if err := p.require('}'); err != nil {
		return nil, err
	}

	return &ast.RuleSet{Selectors: selectors, Body: body, Pos: pos}, nil
}

// parseBody parses the statements of a block up to, not including, its
// closing brace.
func (p *parser) parseBody() ([]ast.Statement, error) {
	body := make([]ast.Statement, 0)

	for {
		p.skipWhitespaceAndComments()

		switch {
		case p.eof():
			return nil, p.expected(`"}"`)

		case p.peek() == '}':
			return body, nil

		case p.peek() == ';':
			p.advance()

			continue

		case p.peek() == '@':
			stmts, err := p.parseBlockDirective()
			if err != nil {
				return nil, err
			}

			body = append(body, stmts...)

			continue

		case p.isNestedRuleSet():
			rs, err := p.parseRuleSet()
			if err != nil {
				return nil, err
			}

			body = append(body, rs)

			continue
		}

		d, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}

		body = append(body, d)
	}
}

// parseDeclaration parses: name ':' value ['!important'] [';'].
func (p *parser) parseDeclaration() (ast.Declaration, error) {
	pos := p.position()

	name := p.parseName()
	if name == "" {
		return ast.Declaration{}, p.expected("declaration")
	}

	if err := p.require(':'); err != nil {
		return ast.Declaration{}, err
	}

	var (
		value ast.Expression
		err   error
	)

	switch strings.ToLower(name) {
	case "extend", "apply":
		value, err = p.parseClassRefs()
	default:
		value, err = p.parseExpression(p.stopDeclaration)
	}

	if err != nil {
		return ast.Declaration{}, err
	}

	d := ast.Declaration{Name: name, Value: value, Pos: pos}

	p.skipWhitespaceAndComments()

	if p.expect('!') {
		p.skipWhitespaceAndComments()

		if !strings.EqualFold(p.parseName(), "important") {
			return ast.Declaration{}, p.errorf(pos, "expected !important")
		}

		d.Important = true
	}

	return d, p.endStatement()
}

func (p *parser) stopDeclaration() bool {
	return strings.ContainsRune(";}!", p.peek())
}

// parseClassRefs parses the value of an extend or apply declaration:
// Name, Name(args) and ruleset(selector), separated by commas or spaces.
func (p *parser) parseClassRefs() (ast.Expression, error) {
	refs := make(ast.Expression, 0)
	sep := ast.SepNone

	for {
		p.skipWhitespaceAndComments()

		if p.eof() || p.stopDeclaration() {
			if len(refs) == 0 {
				return nil, p.expected("class name")
			}

			return refs, nil
		}

		if p.expect(',') {
			sep = ast.SepComma

			continue
		}

		name := p.parseName()
		if name == "" {
			return nil, p.expected("class name")
		}

		var t ast.Term

		switch {
		case strings.EqualFold(name, "ruleset") && p.peek() == '(':
			p.advance()

			sel, err := p.capture(')')
			if err != nil {
				return nil, err
			}

			p.advance() // skip ')'

			t = ast.RuleSetReference{Selector: sel}

		case p.peek() == '(':
			p.advance()

			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			t = ast.ClassReference{Name: name, Args: args, HasArgs: true}

		default:
			t = ast.ClassReference{Name: name}
		}

		refs = append(refs, t.WithSep(sep))
		sep = ast.SepNone
	}
}

// parseArgs parses a call-style argument list after its opening
// parenthesis and consumes the closing one. Arguments are separated by
// semicolons when the list contains any, otherwise by commas. Named
// arguments are written "name: value".
func (p *parser) parseArgs() (ast.Declarations, error) {
	delim := p.argDelimiter()
	stop := func() bool {
		return strings.ContainsRune(");{}", p.peek()) || p.peek() == delim
	}

	args := make(ast.Declarations, 0)

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			return nil, p.expected(`")"`)
		}

		if p.expect(')') {
			return args, nil
		}

		d := ast.Declaration{Pos: p.position()}

		if name, ok := p.peekNamed(); ok {
			d.Name = name

			p.parseName()
			p.skipWhitespaceAndComments()
			p.advance() // skip ':'
		}

		value, err := p.parseExpression(stop)
		if err != nil {
			return nil, err
		}

		d.Value = value
		args = append(args, d)

		p.skipWhitespaceAndComments()

		if !p.expect(delim) && p.peek() != ')' {
			return nil, p.expected(`")"`)
		}
	}
}

// argDelimiter looks ahead to the end of the current argument list.
func (p *parser) argDelimiter() rune {
	depth := 0

	for i := p.pos; i < len(p.input); i++ {
		switch c := p.input[i]; c {
		case '"', '\'':
			i = skipQuoted(p.input, i)
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return ','
			}

			depth--
		case ';':
			if depth == 0 {
				return ';'
			}
		case '{', '}':
			return ','
		}
	}

	return ','
}

// parseExpression parses terms until stop reports true or input ends.
func (p *parser) parseExpression(stop func() bool) (ast.Expression, error) {
	expr := make(ast.Expression, 0)
	sep := ast.SepNone

	for {
		p.skipWhitespaceAndComments()

		if p.eof() || stop() {
			return expr, nil
		}

		switch p.peek() {
		case ',':
			sep = ast.SepComma

			p.advance()

			continue

		case '/':
			sep = ast.SepSlash

			p.advance()

			continue

		case '=':
			sep = ast.SepEquals

			p.advance()

			continue
		}

		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		expr = append(expr, t.WithSep(sep))
		sep = ast.SepNone
	}
}

// parseTerm parses a single term.
func (p *parser) parseTerm() (ast.Term, error) {
	ch := p.peek()

	switch {
	case ch == '"' || ch == '\'':
		return p.parseString()

	case ch == '#':
		p.advance()

		v := p.parseName()
		if v == "" {
			return nil, p.expected("hex color")
		}

		return ast.Hex{Value: v}, nil

	case ch == '@':
		p.advance()

		name := p.parseName()
		if name == "" {
			return nil, p.expected("constant name")
		}

		return ast.Reference{Kind: ast.RefConst, Name: name}, nil

	case ch == '%' && isNameStart(rune(p.peekByte(1))):
		p.advance()

		return ast.Reference{Kind: ast.RefParam, Name: p.parseName()}, nil

	case p.atNumber():
		return p.parseNumber()

	case isNameStart(ch) || (ch == '-' && isNameChar(rune(p.peekByte(1)))):
		return p.parseIdentTerm()
	}

	return p.parseRawKeyword()
}

func (p *parser) parseNumber() (ast.Term, error) {
	start := p.pos

	if ch := p.peek(); ch == '+' || ch == '-' {
		p.advance()
	}

	for isDigit(p.peekByte(0)) {
		p.advance()
	}

	if p.peek() == '.' && isDigit(p.peekByte(1)) {
		p.advance()

		for isDigit(p.peekByte(0)) {
			p.advance()
		}
	}

	value, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	var unit string

	switch {
	case p.expect('%'):
		unit = "%"
	case isNameStart(p.peek()):
		unit = p.parseName()
	}

	return ast.Number{
		Value: value,
		Unit:  unit,
		Raw:   string(p.input[start:p.pos]),
	}, nil
}

func (p *parser) parseIdentTerm() (ast.Term, error) {
	name := p.parseName()

	if strings.EqualFold(name, "u") && p.peek() == '+' {
		start := p.pos
		for !p.eof() && strings.ContainsRune("+-?0123456789abcdefABCDEF", p.peek()) {
			p.advance()
		}

		return ast.Keyword{Name: name + string(p.input[start:p.pos])}, nil
	}

	if p.peek() != '(' {
		return ast.Keyword{Name: name}, nil
	}

	switch strings.ToLower(name) {
	case "url":
		return p.parseURL()

	case "calc":
		p.advance()

		e, err := p.parseCalcSum()
		if err != nil {
			return nil, err
		}

		if err := p.require(')'); err != nil {
			return nil, err
		}

		return ast.Calculation{Expr: e}, nil

	case "const", "param", "prop":
		kind := map[string]ast.RefKind{
			"const": ast.RefConst,
			"param": ast.RefParam,
			"prop":  ast.RefProp,
		}[strings.ToLower(name)]

		p.advance()
		p.skipWhitespaceAndComments()

		ref := p.parseName()
		if ref == "" {
			return nil, p.expected("name")
		}

		if err := p.require(')'); err != nil {
			return nil, err
		}

		return ast.Reference{Kind: kind, Name: ref}, nil

	case "ruleset":
		p.advance()

		sel, err := p.capture(')')
		if err != nil {
			return nil, err
		}

		p.advance() // skip ')'

		return ast.RuleSetReference{Selector: sel}, nil
	}

	p.advance()

	args, err := p.parseExpression(func() bool {
		return strings.ContainsRune(");{}", p.peek())
	})
	if err != nil {
		return nil, err
	}

	if err := p.require(')'); err != nil {
		return nil, err
	}

	return ast.Call{Name: name, Args: args}, nil
}

// parseURL parses the parenthesized part of url(...), kept as written.
func (p *parser) parseURL() (ast.Term, error) {
	p.advance() // skip '('
	p.skipWhitespace()

	start := p.pos

	for !p.eof() && p.peek() != ')' {
		if ch := p.peek(); ch == '"' || ch == '\'' {
			if err := p.skipString(ch); err != nil {
				return nil, err
			}

			continue
		}

		p.advance()
	}

	if p.eof() {
		return nil, p.expected(`")"`)
	}

	v := strings.TrimSpace(string(p.input[start:p.pos]))

	p.advance() // skip ')'

	return ast.URL{Value: v}, nil
}

func (p *parser) parseString() (ast.String, error) {
	quote := p.peek()
	start := p.pos

	if err := p.skipString(quote); err != nil {
		return ast.String{}, err
	}

	return ast.String{
		Value: string(p.input[start+1 : p.pos-1]),
		Quote: quote,
	}, nil
}

// parseRawKeyword parses any other run of non-delimiter characters.
func (p *parser) parseRawKeyword() (ast.Term, error) {
	start := p.pos

	for !p.eof() {
		ch := p.peek()
		if unicode.IsSpace(ch) || strings.ContainsRune(`,;{}()/=!"'`, ch) {
			break
		}

		p.advance()
	}

	if p.pos == start {
		return nil, p.unexpected()
	}

	return ast.Keyword{Name: string(p.input[start:p.pos])}, nil
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekByte(i int) byte {
	if p.pos+i >= len(p.input) {
		return 0
	}

	return p.input[p.pos+i]
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

// peekWord returns the lower-cased name at the current position without
// consuming it.
func (p *parser) peekWord() string {
	end := p.pos
	for end < len(p.input) {
		r, size := utf8.DecodeRune(p.input[end:])
		if !isNameChar(r) {
			break
		}

		end += size
	}

	return strings.ToLower(string(p.input[p.pos:end]))
}

// peekNamed reports whether the input continues with "name :".
func (p *parser) peekNamed() (string, bool) {
	pos, line, col := p.pos, p.line, p.col
	defer func() { p.pos, p.line, p.col = pos, line, col }()

	name := p.parseName()
	p.skipWhitespaceAndComments()

	return name, name != "" && p.peek() == ':'
}

// acceptWord consumes the keyword w if it is next in the input.
func (p *parser) acceptWord(w string) bool {
	p.skipWhitespaceAndComments()

	if p.peekWord() != w {
		return false
	}

	p.advanceN(len(w))

	return true
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) advanceN(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

// require skips whitespace and consumes ch, or fails.
func (p *parser) require(ch rune) error {
	p.skipWhitespaceAndComments()

	if !p.expect(ch) {
		return p.expected(strconv.QuoteRune(ch))
	}

	return nil
}

// endStatement consumes an optional ';' before a closing brace or end of
// input.
func (p *parser) endStatement() error {
	p.skipWhitespaceAndComments()

	if p.eof() || p.peek() == '}' || p.expect(';') {
		return nil
	}

	return p.expected(`";"`)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() ast.Position {
	return ast.Position{
		URL:    p.url,
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) atNumber() bool {
	c0, c1 := p.peekByte(0), p.peekByte(1)

	switch {
	case isDigit(c0):
		return true
	case c0 == '.':
		return isDigit(c1)
	case c0 == '+' || c0 == '-':
		return isDigit(c1) || (c1 == '.' && isDigit(p.peekByte(2)))
	}

	return false
}

// isNestedRuleSet reports whether a '{' comes before the end of the current
// statement.
func (p *parser) isNestedRuleSet() bool {
	depth := 0

	for i := p.pos; i < len(p.input); i++ {
		switch c := p.input[i]; c {
		case '"', '\'':
			i = skipQuoted(p.input, i)
		case '/':
			if i+1 < len(p.input) && p.input[i+1] == '*' {
				if end := strings.Index(string(p.input[i+2:]), "*/"); end >= 0 {
					i += end + 3
				}
			}
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '{':
			if depth == 0 {
				return true
			}
		case ';', '}':
			if depth == 0 {
				return false
			}
		}
	}

	return false
}

func (p *parser) parseName() string {
	start := p.pos

	for !p.eof() && isNameChar(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) skipWhitespaceAndComments() {
	for {
		p.skipWhitespace()

		if p.eof() {
			return
		}

		// Line comment
		if p.peekN(2) == "//" {
			p.skipLineComment()

			continue
		}

		// Block comment
		if p.peekN(2) == "/*" {
			p.skipBlockComment()

			continue
		}

		break
	}
}

func (p *parser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}

	if !p.eof() {
		p.advance() // skip '\n'
	}
}

func (p *parser) skipBlockComment() {
	p.advance() // skip '/'
	p.advance() // skip '*'

	for !p.eof() {
		if p.peekN(2) == "*/" {
			p.advance() // skip '*'
			p.advance() // skip '/'

			return
		}

		p.advance()
	}
}

func (p *parser) skipString(quote rune) error {
	pos := p.position()

	p.advance() // skip opening quote

	for !p.eof() {
		ch := p.peek()
		if ch == '\\' {
			p.advance() // skip backslash

			if !p.eof() {
				p.advance() // skip escaped char
			}

			continue
		}

		if ch == quote {
			p.advance() // skip closing quote

			return nil
		}

		p.advance()
	}

	return p.errorf(pos, "unterminated string")
}

// capture returns the normalized text up to stop, which is left
// unconsumed. Strings are kept verbatim and block comments dropped.
func (p *parser) capture(stop rune) (string, error) {
	var sb strings.Builder

	depth := 0

	for !p.eof() {
		ch := p.peek()

		switch {
		case ch == '"' || ch == '\'':
			start := p.pos
			if err := p.skipString(ch); err != nil {
				return "", err
			}

			sb.Write(p.input[start:p.pos])

			continue

		case p.peekN(2) == "/*":
			p.skipBlockComment()
			sb.WriteByte(' ')

			continue

		case depth == 0 && ch == stop:
			return normalize(sb.String()), nil

		case ch == '(' || ch == '[':
			depth++

		case (ch == ')' || ch == ']') && depth > 0:
			depth--

		case depth == 0 && strings.ContainsRune("{};", ch):
			return "", p.expected(strconv.QuoteRune(stop))
		}

		sb.WriteRune(ch)
		p.advance()
	}

	if stop == ';' {
		return normalize(sb.String()), nil
	}

	return "", p.expected(strconv.QuoteRune(stop))
}

// Errors

func (p *parser) errorf(pos ast.Position, format string, args ...any) error {
	return ErrParse.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	).Wrap(fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (p *parser) expected(what string) error {
	return p.errorf(p.position(), "expected %s, found %s", what, p.found())
}

func (p *parser) unexpected() error {
	return p.errorf(p.position(), "unexpected %s", p.found())
}

func (p *parser) found() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(p.peek())
}

// Character classification

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || r >= utf8.RuneSelf || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || unicode.IsDigit(r)
}

// skipQuoted returns the index of the closing quote of the string starting
// at data[i].
func skipQuoted(data []byte, i int) int {
	q := data[i]

	for i++; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}

	return i
}

func normalize(s string) string { return strings.Join(strings.Fields(s), " ") }

// splitSelectors splits a selector list at top-level commas.
func splitSelectors(s string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			i = skipQuoted([]byte(s), i)
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}

	out = append(out, s[start:])

	sels := out[:0]
	for _, sel := range out {
		if sel = normalize(sel); sel != "" {
			sels = append(sels, sel)
		}
	}

	return sels
}
