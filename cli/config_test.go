package cli

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, res kong.Resolver, name string) any {
	t.Helper()

	v, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", name, err)
	}

	return v
}

func TestLoadYAML(t *testing.T) {
	const doc = `
log_level: debug
max_depth: 8
log-pretty: false
include_path:
  - ./styles
  - ./vendor
define:
  accent: teal
  gap: 4
`

	res, err := loadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadYAML() error = %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"max-depth", "8"},
		{"log-pretty", false},
		{"include-path", []any{"./styles", "./vendor"}},
		{"define", map[string]any{"accent": "teal", "gap": "4"}},
		{"missing", nil},
	}

	for _, tt := range tests {
		if got := resolveFlag(t, res, tt.flag); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
		}
	}
}

func TestLoadYAMLEmpty(t *testing.T) {
	res, err := loadYAML(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("loadYAML() error = %v", err)
	}

	if got := resolveFlag(t, res, "log-level"); got != nil {
		t.Errorf("Resolve() = %v, want nil", got)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	if _, err := loadYAML(strings.NewReader("log_level: [unclosed")); !errors.Is(err, ErrConfig) {
		t.Errorf("loadYAML() error = %v, want ErrConfig", err)
	}
}

func TestLoadJSONC(t *testing.T) {
	const doc = `{
  // comments and trailing commas are allowed
  "log_level": "warn",
  "compact": true,
}`

	res, err := loadJSONC(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadJSONC() error = %v", err)
	}

	if got := resolveFlag(t, res, "log-level"); got != "warn" {
		t.Errorf("Resolve(log-level) = %v, want warn", got)
	}

	if res, err = loadJSONC(strings.NewReader("/* nothing */")); err != nil {
		t.Fatalf("loadJSONC(empty) error = %v", err)
	}

	if got := resolveFlag(t, res, "log-level"); got != nil {
		t.Errorf("Resolve() on empty config = %v, want nil", got)
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{int(3), "3"},
		{int64(-2), "-2"},
		{uint64(7), "7"},
		{1.5, "1.5"},
		{true, true},
		{"x", "x"},
		{[]any{uint64(1), "a"}, []any{"1", "a"}},
	}

	for _, tt := range tests {
		if got := configValue(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
