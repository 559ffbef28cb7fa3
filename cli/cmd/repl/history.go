package repl

import (
	"bufio"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// maxHistory bounds the number of entries kept in the history file.
	maxHistory = 1000
)

// HistoryEntry is one submitted input and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is the REPL input history, persisted one entry per line.
//
// Each line holds a mode prefix ("S:" for DSS snippets, "C:" for commands)
// followed by the Go-quoted input, so snippets written in the editor keep
// their line breaks.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file. A
// missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if entry, ok := decodeEntry(scanner.Text()); ok {
			h.entries = append(h.entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}

	return nil
}

// Add records line as the newest entry. An earlier identical entry is
// moved rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	rewrite := false

	if i := slices.Index(h.entries, entry); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		rewrite = true
	}

	h.entries = append(h.entries, entry)

	if over := len(h.entries) - maxHistory; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
		rewrite = true
	}

	if rewrite {
		return h.rewrite()
	}

	return h.append(entry)
}

// Entry returns the entry at index i. Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds.With(slog.Int("index", i))
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// append writes entry at the end of the history file.
// Must be called with h.mu held.
func (h *History) append(entry HistoryEntry) error {
	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}
	defer file.Close()

	if _, err := file.WriteString(encodeEntry(entry) + "\n"); err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}

	return nil
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	var b strings.Builder

	for _, entry := range h.entries {
		b.WriteString(encodeEntry(entry))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(h.path, []byte(b.String()), 0o600); err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}

	return nil
}

func encodeEntry(e HistoryEntry) string {
	prefix := "S:"
	if e.Mode == modeCtrl {
		prefix = "C:"
	}

	return prefix + strconv.Quote(e.Line)
}

// decodeEntry parses one history file line. Unquoted content is taken as
// written.
func decodeEntry(line string) (HistoryEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return HistoryEntry{}, false
	}

	mode := modeEval

	if s, ok := strings.CutPrefix(line, "C:"); ok {
		mode, line = modeCtrl, s
	} else if s, ok := strings.CutPrefix(line, "S:"); ok {
		line = s
	}

	if s, err := strconv.Unquote(line); err == nil {
		line = s
	}

	if line == "" {
		return HistoryEntry{}, false
	}

	return HistoryEntry{Line: line, Mode: mode}, true
}
