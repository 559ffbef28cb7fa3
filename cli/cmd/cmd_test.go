package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/silentmatt/dss-sub000/lang"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func sourcePaths(srcs []source) []string {
	paths := make([]string, len(srcs))
	for i, s := range srcs {
		paths[i] = s.String()
	}

	return paths
}

// TestExpandSourcesEmpty tests that no inputs means stdin.
func TestExpandSourcesEmpty(t *testing.T) {
	srcs, err := expandSources(nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(srcs) != 1 || !srcs[0].isStdin() {
		t.Errorf("expandSources(nil) = %v, want [<stdin>]", sourcePaths(srcs))
	}
}

// TestExpandSourcesGlob tests recursive glob expansion in sorted order.
func TestExpandSourcesGlob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.dss":          "",
		"a.dss":          "",
		"notes.txt":      "",
		"sub/c.dss":      "",
		"sub/deep/d.dss": "",
	})

	srcs, err := expandSources([]string{filepath.Join(dir, "**", "*.dss")})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "a.dss"),
		filepath.Join(dir, "b.dss"),
		filepath.Join(dir, "sub", "c.dss"),
		filepath.Join(dir, "sub", "deep", "d.dss"),
	}

	if got := sourcePaths(srcs); !slices.Equal(got, want) {
		t.Errorf("expandSources() = %v, want %v", got, want)
	}
}

// TestExpandSourcesDeduplicate tests that files reached through several
// inputs, relative paths and symlinks are kept once.
func TestExpandSourcesDeduplicate(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.dss": "", "b.dss": ""})

	link := filepath.Join(dir, "link.dss")
	if err := os.Symlink(filepath.Join(dir, "a.dss"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	srcs, err := expandSources([]string{
		filepath.Join(dir, "a.dss"),
		"-",
		filepath.Join(dir, "*.dss"),
		link,
		"-",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "a.dss"),
		filepath.Join(dir, "b.dss"),
		"<stdin>",
	}

	if got := sourcePaths(srcs); !slices.Equal(got, want) {
		t.Errorf("expandSources() = %v, want %v", got, want)
	}
}

// TestExpandSourcesErrors tests missing files, bad patterns and empty
// matches.
func TestExpandSourcesErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		inputs []string
		want   error
	}{
		{"missing_file", []string{filepath.Join(dir, "missing.dss")}, ErrOpenInput},
		{"bad_pattern", []string{filepath.Join(dir, "[.dss")}, ErrPattern},
		{"no_match", []string{filepath.Join(dir, "*.dss")}, ErrNoInput},
		{"directory_only", []string{dir}, ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expandSources(tt.inputs)
			if !errors.Is(err, tt.want) {
				t.Errorf("expandSources(%v) error = %v, want %v", tt.inputs, err, tt.want)
			}
		})
	}
}

// TestOptionsFrom tests that stored options reach the compiler.
func TestOptionsFrom(t *testing.T) {
	ctx := WithOptions(t.Context(), lang.WithDefines(map[string]string{"c": "blue"}))

	res, err := lang.Compile(ctx, "p { color: @c }", optionsFrom(ctx)...)
	if err != nil {
		t.Fatal(err)
	}

	if got := res.Stylesheet.String(0); got != "p { color: blue }\n" {
		t.Errorf("compile with stored options = %q", got)
	}

	if opts := optionsFrom(t.Context()); len(opts) != 1 {
		t.Errorf("optionsFrom(empty) = %d options, want only the logger", len(opts))
	}
}
