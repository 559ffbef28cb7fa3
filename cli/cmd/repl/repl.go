package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/silentmatt/dss-sub000/lang"
	"github.com/silentmatt/dss-sub000/lang/eval"
	"github.com/silentmatt/dss-sub000/log"
)

// editDoneMsg is sent when the editor returned source that parses.
type editDoneMsg struct{ source string }

// editCancelledMsg reports an empty editor buffer.
type editCancelledMsg struct{}

// editDeclinedMsg reports that a buffer with a parse error was discarded.
type editDeclinedMsg struct{}

// editErrorMsg reports a failure to run the editor.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (Esc returns to DSS input):

  help     Show this message
  list     Show defined constants and classes
  edit     Compose a multi-line snippet in $EDITOR
  reset    Discard every definition
  clear    Clear the terminal
  quit     Leave the REPL

Usage:
  Type DSS (rules, @define, @class) to compile it; constants and classes
    persist across inputs
  Completions appear automatically as you type: constants after '@',
    classes and functions elsewhere
  Tab and Shift-Tab step through candidates; Space accepts one
  Esc switches between DSS and command input
  Up and Down walk the history, switching mode with each entry
  Shift+Up and Shift+Down walk the history of the current mode
  Ctrl+C on an empty line, or Ctrl+D, exits
`
}

// inputMode selects whether input is DSS or a command.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line of a submitted input.
func formatCommand(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// savedInput is the unsubmitted text of one mode.
type savedInput struct {
	text   string
	cursor int
}

// model is the REPL state.
type model struct {
	ctxFunc      func() context.Context
	session      *lang.Session
	history      *History
	functions    map[string]bool
	logger       log.Logger
	input        textinput.Model
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	saved        [2]savedInput // per-mode input while the other mode is active
	draft        string        // last snippet written in the editor
	preTabText   string        // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	indent       int // indent width of printed CSS
	mode         inputMode
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

// Run starts the REPL over session. Inputs are recorded in a history file
// under cacheDir.
func Run(
	ctx context.Context,
	session *lang.Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("constant_count", len(session.Constants())),
		slog.Int("class_count", len(session.Classes())),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, session, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const (
	defaultWidth  = 80
	defaultIndent = 2
)

func newModel(
	ctx context.Context,
	session *lang.Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	functions := make(map[string]bool)
	for _, name := range session.Functions() {
		functions[name] = true
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    session,
		history:    history,
		functions:  functions,
		logger:     logger,
		input:      ti,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		indent:     defaultIndent,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.draft = msg.source
		m.record(msg.source, modeEval)

		return m, tea.Sequence(
			tea.Println(hintStyle.Render("compiled editor buffer")),
			m.evaluate(msg.source),
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("editor failed: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintView())
	b.WriteString("\n")

	return b.String()
}

// hintView renders the line below the input: history position, usage
// hint, signature of the enclosing call, or completion candidates.
func (m model) hintView() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type DSS to compile or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && !m.tabActive {
		fc := detectFunctionCall(input, m.input.Position())
		if fc.inCall {
			if params, sep, ok := getSignature(m.session, fc.name); ok {
				return renderSignatureHint(fc.name, params, sep, fc.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width,
		func(name string) bool { return m.mode == modeEval && m.functions[name] })
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Keep the selected candidate and stay on the line.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Other keys (backspace, delete, arrows) edit or move without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around. A single
// candidate is completed at once.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	n := len(m.matches)

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes replacement for the word under the cursor
// and moves the cursor past it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes the candidates for the word under the cursor.
// With autoConfirm, a word that already equals its only candidate clears
// the candidate bar; deletions and cursor moves pass false.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// record adds input to the history, logging failures.
func (m *model) record(input string, mode inputMode) {
	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	m.saved = [2]savedInput{}
	m.input.SetValue("")
	m.record(input, mode)
	refreshMatches(&m, false)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl input",
		slog.String("input", input),
		slog.Bool("command", mode == modeCtrl),
	)

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m, tea.Sequence(
		tea.Println(formatCommand(mode, input)),
		m.evaluate(input),
	)
}

// evaluate compiles src in the session and prints the diagnostics followed
// by the resulting CSS.
func (m model) evaluate(src string) tea.Cmd {
	ctx := m.ctxFunc()

	res, err := m.session.Eval(ctx, src)
	if err != nil {
		m.logger.TraceContext(ctx, "repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", err.Error()))

		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	m.logger.TraceContext(ctx, "repl eval result",
		slog.Int("rule_count", len(res.Stylesheet.Rules)),
		slog.Int("diagnostic_count", len(res.Diagnostics)))

	cmds := make([]tea.Cmd, 0, len(res.Diagnostics)+1)

	for _, d := range res.Diagnostics {
		style := errorStyle
		if d.Severity == eval.SeverityWarning {
			style = warnStyle
		}

		cmds = append(cmds, tea.Println(style.Render(d.Error())))
	}

	css := strings.TrimRight(res.Stylesheet.String(m.indent), "\n")

	switch {
	case css != "":
		cmds = append(cmds, tea.Println(resultStyle.Render(css)))
	case len(res.Diagnostics) == 0:
		cmds = append(cmds, tea.Println(hintStyle.Render("(no output)")))
	}

	return tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCommand(modeCtrl, input))

	cmd := parts[0]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", parts[1:]),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listDefinitions()))

	case "r", "reset":
		if err := m.session.Reset(m.ctxFunc()); err != nil {
			return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		m.draft = ""

		return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command " + strconv.Quote(cmd) + ", see help"),
		)
	}
}

// edit opens the editor on the last draft.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		draft:   m.draft,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.source == "":
			return editCancelledMsg{}
		}

		return editDoneMsg{source: cmd.source}
	})
}

// historyStep moves through the history by step entries. With sameMode
// only entries of the current mode are visited; otherwise the mode follows
// the entry. Stepping past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// listDefinitions renders the session's constants with their values and
// classes with their parameters.
func (m model) listDefinitions() string {
	var b strings.Builder

	for _, name := range m.session.Constants() {
		value, _ := m.session.Constant(name)
		fmt.Fprintf(&b, "  @%s %s\n", name, hintStyle.Render(preview(value)))
	}

	for _, name := range m.session.Classes() {
		params, _ := m.session.ClassParams(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render("("+strings.Join(params, "; ")+")"))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  nothing defined")
	}

	return b.String()
}

// switchToMode switches to mode, keeping each mode's unsubmitted input.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{text: m.input.Value(), cursor: m.input.Position()}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	refreshMatches(&m, false)

	return m
}
