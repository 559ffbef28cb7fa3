package log

import (
	"slices"
	"testing"
	"time"

	"github.com/silentmatt/dss-sub000/pkg"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{" warn ", LevelWarn},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelAndFormatNames(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got,
		[]string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", got)
	}

	for _, s := range []string{"json", "text"} {
		if got := ParseFormat(s).String(); got != s {
			t.Errorf("ParseFormat(%q).String() = %q", s, got)
		}
	}
}

func TestConfig_Options(t *testing.T) {
	c := pkg.Apply(defaultConfig(nil),
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelWarn || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c.output == nil {
		t.Error("nil writer should be replaced with io.Discard")
	}
}

func TestConfig_formatTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-01T12:30:45Z"},
		{"rfc3339nano", "2024-03-01T12:30:45.123456789Z"},
		{"kitchen", "12:30PM"},
		{"2006", "2024"},
		{"", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.stamp(ts); got != tt.want {
				t.Errorf("formatTime(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelTrace + 1, "trace1"},
		{LevelWarn, "warn"},
		{LevelInfo + 2, "info+2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}

	if got := Format(7).String(); got != "Format(7)" {
		t.Errorf("Format(7).String() = %q", got)
	}

	if got := ParseFormat("yaml"); got != DefaultFormat {
		t.Errorf("ParseFormat(yaml) = %v, want default", got)
	}
}
