package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func initContext(t *testing.T, confPath string, cli any, args ...string) context.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), kctx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr bool
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Compact bool `name:"compact"`
			}

			ctx := initContext(t, confPath, &cli, "--compact")

			err := (&Init{Force: tt.force}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
					t.Errorf("Init.Run() error = %v, want ErrWriteConfig wrapping ErrFileExists", err)
				}

				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if got["compact"] != true {
				t.Errorf("compact = %v, want true\n%s", got["compact"], content)
			}
		})
	}
}

// TestInitBuildConfig tests that flag values are collected under
// underscore keys and empty values are omitted.
func TestInitBuildConfig(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose     bool              `name:"verbose"`
		Output      string            `name:"output"`
		Empty       string            `name:"empty"`
		Count       int               `name:"count"`
		IncludePath []string          `name:"include-path"`
		Define      map[string]string `name:"define"`
		Secret      string            `hidden:""         name:"secret"`
		PprofMode   string            `name:"pprof-mode"`
	}

	ctx := initContext(t, "", &cli,
		"--verbose", "--output=test.css", "--count=5",
		"--include-path=a", "--include-path=b",
		"--define=b=2", "--define=a=1",
		"--secret=x", "--pprof-mode=cpu",
	)

	got := (&Init{}).buildConfig(ctx).ToMap()

	want := map[string]any{
		"verbose":      true,
		"output":       "test.css",
		"count":        5,
		"include_path": []any{"a", "b"},
	}

	for key, val := range want {
		if !equalYAML(t, got[key], val) {
			t.Errorf("%s = %#v, want %#v", key, got[key], val)
		}
	}

	for _, key := range []string{"empty", "secret", "pprof_mode", "help"} {
		if _, ok := got[key]; ok {
			t.Errorf("unexpected key %q in config", key)
		}
	}

	define, ok := got["define"].(yaml.MapSlice)
	if !ok || len(define) != 2 || define[0].Key != "a" || define[1].Key != "b" {
		t.Errorf("define = %#v, want sorted map with a and b", got["define"])
	}
}

func equalYAML(t *testing.T, a, b any) bool {
	t.Helper()

	x, err := yaml.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}

	y, err := yaml.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}

	return string(x) == string(y)
}

// TestConfigValue tests conversion of the flag value kinds kong produces.
func TestConfigValue(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"string", "x", "x"},
		{"empty_string", "", "null"},
		{"named_string", level("debug"), "debug"},
		{"string_slice", []string{"a", "b"}, "- a\n- b"},
		{"empty_slice", []string{}, "null"},
		{"int_slice", []int{1, 2}, "- 1\n- 2"},
		{"map", map[string]string{"k": "v"}, "k: v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := yaml.Marshal(configValue(tt.in))
			if err != nil {
				t.Fatal(err)
			}

			if got := strings.TrimSpace(string(data)); got != tt.want {
				t.Errorf("configValue(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestInitWithInvalidPath tests init with an invalid file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	var cli struct{}

	ctx := initContext(t, "/nonexistent/directory/config.yaml", &cli)

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}
