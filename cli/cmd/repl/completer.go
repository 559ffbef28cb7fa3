package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are completed in command mode.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// directives are the at-rule names offered after '@' alongside constants.
var directives = []string{
	"charset", "class", "define", "else", "font-face", "if",
	"import", "include", "media", "namespace", "page",
}

// completionSource provides the names known to the session.
type completionSource interface {
	Constants() []string
	Classes() []string
	Functions() []string
}

// isWordBoundary reports whether r delimits words for completion. Hyphens
// are not boundaries because DSS names may contain them (font-face,
// border-color).
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n',
		'(', ')', '{', '}', '[', ']',
		'+', '*', '/', '%', '=', '!', '<', '>',
		',', ';', ':', '.', '#', '@', '&', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte offsets. The
// word is empty when the cursor follows a boundary rune.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// sigil returns the rune immediately before the word starting at
// wordStart, or 0 at the start of input.
func sigil(input string, wordStart int) rune {
	if wordStart == 0 {
		return 0
	}

	r, _ := utf8.DecodeLastRuneInString(input[:wordStart])

	return r
}

// wordCandidates returns the names that may complete the word starting at
// wordStart: constants and directives after '@', constants inside const(),
// otherwise classes and functions.
func wordCandidates(src completionSource, input string, wordStart int) []string {
	if sigil(input, wordStart) == '@' {
		return append(src.Constants(), directives...)
	}

	if fc := detectFunctionCall(input, wordStart); fc.inCall && strings.EqualFold(fc.name, "const") {
		return src.Constants()
	}

	return append(src.Classes(), src.Functions()...)
}

// computeMatches ranks the candidates for the word under the cursor. An
// empty word has no matches, which keeps the usage hint visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = wordCandidates(m.session, input, wordStart)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar renders matches on one line no wider than width,
// ending in "..." when some do not fit. Names for which callable reports
// true are suffixed with "()".
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	callable func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, callable(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders match with its matched runes in bold.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// preview shortens a constant value for the list command.
func preview(value string) string {
	const maxPreview = 40

	if utf8.RuneCountInString(value) <= maxPreview {
		return value
	}

	runes := []rune(value)

	return string(runes[:maxPreview-3]) + "..."
}
