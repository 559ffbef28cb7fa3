package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// builtinParams lists the parameters of the built-in color functions and
// the reference forms.
var builtinParams = map[string][]string{
	"rgb":        {"red", "green", "blue"},
	"rgba":       {"red", "green", "blue", "alpha"},
	"hsl":        {"hue", "saturation", "lightness"},
	"hsla":       {"hue", "saturation", "lightness", "alpha"},
	"lighten":    {"color", "amount"},
	"darken":     {"color", "amount"},
	"saturate":   {"color", "amount"},
	"desaturate": {"color", "amount"},
	"fadein":     {"color", "amount"},
	"fadeout":    {"color", "amount"},
	"fade":       {"color", "alpha"},
	"spin":       {"color", "degrees"},
	"mix":        {"color1", "color2", "weight"},
	"grayscale":  {"color"},
	"complement": {"color"},
	"hex":        {"color"},
	"calc":       {"expression"},
	"const":      {"name"},
	"param":      {"name"},
	"prop":       {"name"},
	"ruleset":    {"selector"},
}

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string // function or class name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall reports the innermost function call or class
// reference whose argument list contains the cursor. Arguments are
// separated by commas or semicolons at the top level of the list.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	open := -1
	depth := 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isNameRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',', ';':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

func isNameRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// signatureSource resolves class parameters.
type signatureSource interface {
	ClassParams(name string) ([]string, bool)
}

// getSignature returns the parameter names of a class or built-in
// function, and the separator shown between them. Classes take precedence.
func getSignature(src signatureSource, name string) (params []string, sep string, ok bool) {
	if params, ok := src.ClassParams(name); ok {
		return params, "; ", true
	}

	if params, ok := builtinParams[strings.ToLower(name)]; ok {
		return params, ", ", true
	}

	return nil, "", false
}

// renderSignatureHint renders "name(a, b)" with the parameter at
// currentArgIdx highlighted.
func renderSignatureHint(
	name string,
	params []string,
	sep string,
	currentArgIdx int,
) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(sep))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
