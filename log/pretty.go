package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// layout selects how a prettyHandler arranges a record.
type layout int

const (
	// layoutText writes key=value pairs on a single line.
	layoutText layout = iota
	// layoutJSON writes an indented JSON-like object, one field per line.
	layoutJSON
)

// prettyHandler is a colorized [slog.Handler] for terminal output.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	layout layout
	attrs  []slog.Attr // preformatted attrs from WithAttrs
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	l layout,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		layout: l,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs)+4)

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(nil, slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a))

		return true
	})

	buf := new(bytes.Buffer)

	switch h.layout {
	case layoutJSON:
		buf.WriteString("{")

		first := true

		for _, a := range fields {
			if a.Equal(slog.Attr{}) {
				continue
			}

			if !first {
				buf.WriteByte(',')
			}

			first = false

			buf.WriteString("\n  ")
			writeKey(buf, a.Key)
			buf.WriteString(": ")
			writeValue(buf, a.Value)
		}

		buf.WriteString("\n}\n")

	default:
		for _, a := range fields {
			if a.Equal(slog.Attr{}) {
				continue
			}

			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}

			writeKey(buf, a.Key)
			buf.WriteByte('=')
			writeValue(buf, a.Value)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// qualify prefixes the attr key with the open groups and applies
// ReplaceAttr.
func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	a = h.replace(h.groups, a)
	if len(h.groups) > 0 && a.Key != "" {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}

	return a
}

func (h *prettyHandler) replace(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		return h.opts.ReplaceAttr(groups, a)
	}

	return a
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
}

func writeColored(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		writeColored(buf, colorCyan, v.String())

	case slog.KindInt64:
		writeColored(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		writeColored(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		writeColored(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			writeColored(buf, colorGreen, "true")
		} else {
			writeColored(buf, colorRed, "false")
		}

	case slog.KindDuration:
		writeColored(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		writeColored(buf, colorBlue, v.Time().Format(time.RFC3339))

	case slog.KindGroup:
		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteString(", ")
			}

			writeKey(buf, a.Key)
			buf.WriteByte('=')
			writeValue(buf, a.Value)
		}

		buf.WriteByte('}')

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			writeColored(buf, levelColor(level), strings.ToUpper(Level(level).String()))

			return
		}

		writeColored(buf, colorCyan, v.String())

	default:
		writeColored(buf, colorCyan, v.String())
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
