package log

import (
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/silentmatt/dss-sub000/pkg"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// levelNames lists the named levels from least to most severe.
var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// String returns the lowercase level name. Levels between the named ones
// are written as an offset from the level below, e.g. "info+2".
func (l Level) String() string {
	for _, n := range levelNames {
		if n.level == l {
			return n.name
		}
	}

	if l < LevelDebug {
		return "trace" + strconv.Itoa(int(l-LevelTrace))
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels returns an iterator over the named log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Offsets such as
// "warn-2" are accepted as by [slog.Level.UnmarshalText]. Anything else
// yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	for _, n := range levelNames {
		if strings.EqualFold(s, n.name) {
			return n.level
		}
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the log record encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

var formatNames = [...]string{FormatText: "text", FormatJSON: "json"}

// String returns "text" or "json".
func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns an iterator over the format names, default first.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = yield(FormatJSON.String()) && yield(FormatText.String())
	}
}

// ParseFormat parses "json" or "text". Anything else yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(f)
		}
	}

	return DefaultFormat
}

// DefaultTimeLayout is the timestamp layout used unless another one is set.
const DefaultTimeLayout = time.RFC3339

// Option configures a [Logger].
type Option = pkg.Option[config]

// config is the immutable configuration of a Logger.
type config struct {
	output io.Writer
	stamp  func(time.Time) string
	level  Level
	format Format
	caller bool
	pretty bool
}

func defaultConfig(w io.Writer) config {
	if w == nil {
		w = io.Discard
	}

	return config{
		output: w,
		stamp:  timeFormatter(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: true,
	}
}

// replaceAttr applies the time layout and writes levels by name, so trace
// records read "TRACE" rather than "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch v := a.Value.Any().(type) {
	case time.Time:
		if a.Key != slog.TimeKey {
			break
		}

		s := c.stamp(v)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.Level:
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(strings.ToUpper(Level(v).String()))
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty && c.format == FormatJSON:
		return newPrettyHandler(c.output, opts, layoutJSON)
	case c.pretty:
		return newPrettyHandler(c.output, opts, layoutText)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	}

	return slog.NewTextHandler(c.output, opts)
}

// WithOutput sets the destination of log records. A nil writer discards
// them.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return func(c config) config {
		c.output = w

		return c
	}
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout: a [time] layout name such as
// "RFC3339" or "Kitchen", a literal layout, or "none" (or "") to omit
// timestamps.
func WithTimeLayout(layout string) Option {
	stamp := timeFormatter(layout)

	return func(c config) config {
		c.stamp = stamp

		return c
	}
}

// WithCaller includes the source location of each record.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty enables colorized output; JSON records are also indented.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

// namedLayouts maps normalized layout names to [time] layouts.
var namedLayouts = map[string]string{
	"ansic":       time.ANSIC,
	"datetime":    time.DateTime,
	"kitchen":     time.Kitchen,
	"ms":          time.StampMilli,
	"none":        "",
	"ns":          time.StampNano,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rubydate":    time.RubyDate,
	"stamp":       time.Stamp,
	"stampmicro":  time.StampMicro,
	"stampmilli":  time.StampMilli,
	"stampnano":   time.StampNano,
	"timeonly":    time.TimeOnly,
	"unixdate":    time.UnixDate,
	"us":          time.StampMicro,
}

// timeFormatter returns the timestamp function for layout. It returns ""
// for every time when timestamps are disabled.
func timeFormatter(layout string) func(time.Time) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}

		return -1
	}, layout)

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
