package log

import (
	"bytes"
	"strings"
	"testing"
)

// swapDefault replaces the default logger for the duration of the test.
func swapDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	original := Default()
	t.Cleanup(func() { defaultLog.Store(&original) })

	var buf bytes.Buffer

	Config(append([]Option{WithOutput(&buf), WithPretty(false)}, opts...)...)

	return &buf
}

func TestPackage_ContextFunctions(t *testing.T) {
	buf := swapDefault(t, WithLevel(LevelTrace), WithFormat(FormatJSON))

	TraceContext(t.Context(), "trace ctx")
	DebugContext(t.Context(), "debug ctx")
	InfoContext(t.Context(), "info ctx")
	WarnContext(t.Context(), "warn ctx")
	ErrorContext(t.Context(), "error ctx")
	Error("plain error")

	for _, want := range []string{
		`"level":"TRACE","msg":"trace ctx"`,
		`"level":"DEBUG","msg":"debug ctx"`,
		`"level":"INFO","msg":"info ctx"`,
		`"level":"WARN","msg":"warn ctx"`,
		`"level":"ERROR","msg":"error ctx"`,
		`"msg":"plain error"`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in %s", want, buf.String())
		}
	}
}

func TestPackage_ConfigKeepsEarlierOptions(t *testing.T) {
	buf := swapDefault(t, WithLevel(LevelWarn))

	Config(WithFormat(FormatText))

	InfoContext(t.Context(), "hidden")
	WarnContext(t.Context(), "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("record below configured level written: %s", buf.String())
	}

	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected text record, got: %s", buf.String())
	}

	if Default().Level() != LevelWarn || Default().Format() != FormatText {
		t.Errorf("Default() = level %v format %v", Default().Level(), Default().Format())
	}
}
