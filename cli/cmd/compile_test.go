package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/silentmatt/dss-sub000/lang"
)

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return string(data)
}

// TestCompileToDir tests compiling several inputs into an output directory.
func TestCompileToDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.dss": "@define c: red; a { color: @c }",
		"b.dss": "b { width: calc(1in + 72pt) }",
	})

	out := filepath.Join(dir, "build")

	c := &Compile{
		Inputs:  []string{filepath.Join(dir, "a.dss"), filepath.Join(dir, "b.dss")},
		Output:  out,
		Compact: true,
	}

	if err := c.Run(t.Context()); err != nil {
		t.Fatalf("Compile.Run() unexpected error = %v", err)
	}

	if got := readFile(t, filepath.Join(out, "a.css")); got != "a { color: red }\n" {
		t.Errorf("a.css = %q", got)
	}

	if got := readFile(t, filepath.Join(out, "b.css")); got != "b { width: 144pt }\n" {
		t.Errorf("b.css = %q", got)
	}
}

// TestCompileToDirCollision tests that inputs with the same base name are
// rejected before anything is written.
func TestCompileToDirCollision(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a/site.dss": "a { b: c }",
		"b/site.dss": "d { e: f }",
	})

	out := filepath.Join(dir, "build")

	c := &Compile{
		Inputs: []string{filepath.Join(dir, "a", "site.dss"), filepath.Join(dir, "b", "site.dss")},
		Output: out,
	}

	err := c.Run(t.Context())
	if !errors.Is(err, ErrOutputCollision) {
		t.Fatalf("Compile.Run() error = %v, want %v", err, ErrOutputCollision)
	}

	if _, err := os.Stat(filepath.Join(out, "site.css")); !os.IsNotExist(err) {
		t.Errorf("site.css written despite collision: %v", err)
	}
}

// TestCompileToDirUnwritable tests that a failure to create the output
// directory is reported.
func TestCompileToDirUnwritable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.dss":   "a { b: c }",
		"b.dss":   "d { e: f }",
		"blocker": "",
	})

	c := &Compile{
		Inputs: []string{filepath.Join(dir, "a.dss"), filepath.Join(dir, "b.dss")},
		Output: filepath.Join(dir, "blocker", "build"),
	}

	err := c.Run(t.Context())
	if !errors.Is(err, ErrWriteOutput) {
		t.Fatalf("Compile.Run() error = %v, want %v", err, ErrWriteOutput)
	}

	if _, err := os.Stat(filepath.Join(dir, "blocker", "build")); err == nil {
		t.Error("output created under a regular file")
	}
}

// TestCompileSingleFile tests compiling one input to an output file.
func TestCompileSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.dss": "p { margin: 0 }"})

	out := filepath.Join(dir, "main.css")

	c := &Compile{
		Inputs: []string{filepath.Join(dir, "main.dss")},
		Output: out,
		Indent: 4,
	}

	if err := c.Run(t.Context()); err != nil {
		t.Fatalf("Compile.Run() unexpected error = %v", err)
	}

	if got := readFile(t, out); got != "p {\n    margin: 0;\n}\n" {
		t.Errorf("main.css = %q", got)
	}
}

// TestCompileStdout tests the default output and include resolution
// relative to the input file.
func TestCompileStdout(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.dss":         `@include "parts/base.dss"; p { color: @fg }`,
		"parts/base.dss":   `@define fg: #333; @include "colors.dss";`,
		"parts/colors.dss": `.x { color: @fg }`,
	})

	output, err := captureStdout(t, func() error {
		return (&Compile{Inputs: []string{filepath.Join(dir, "main.dss")}, Indent: 2}).Run(t.Context())
	})
	if err != nil {
		t.Fatalf("Compile.Run() unexpected error = %v", err)
	}

	want := ".x {\n  color: #333;\n}\np {\n  color: #333;\n}\n"
	if output != want {
		t.Errorf("Compile.Run() output = %q, want %q", output, want)
	}
}

// TestCompileDiagnostics tests the exit status for errors and warnings.
func TestCompileDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		werror  bool
		wantErr bool
	}{
		{name: "clean", source: "p { a: b }"},
		{name: "error", source: "p { a: @missing }", wantErr: true},
		{name: "warning", source: "@class C(x) { a: param(x) } p { extend: C(1, 2) }"},
		{name: "warning_as_error", source: "@class C(x) { a: param(x) } p { extend: C(1, 2) }", werror: true, wantErr: true},
		{name: "parse_error", source: "p {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := sourceFile(t, tt.source)

			c := &Compile{
				Inputs: []string{path},
				Output: filepath.Join(filepath.Dir(path), "out.css"),
				Werror: tt.werror,
			}

			err := c.Run(t.Context())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr && !errors.Is(err, ErrCompile) {
				t.Errorf("Compile.Run() error = %v, want ErrCompile", err)
			}
		})
	}
}

// TestCompileOptions tests defines and the include search path taken from
// the context.
func TestCompileOptions(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	writeFiles(t, dir, map[string]string{
		"main.dss":      `@include "theme.dss"; p { color: @accent; width: @w }`,
		"lib/theme.dss": `@define accent: teal;`,
	})

	ctx := WithOptions(t.Context(),
		lang.WithDefines(map[string]string{"w": "10px"}),
		lang.WithSearchPath(lib),
	)

	output, err := captureStdout(t, func() error {
		return (&Compile{Inputs: []string{filepath.Join(dir, "main.dss")}, Compact: true}).Run(ctx)
	})
	if err != nil {
		t.Fatalf("Compile.Run() unexpected error = %v", err)
	}

	if output != "p { color: teal; width: 10px }\n" {
		t.Errorf("Compile.Run() output = %q", output)
	}
}

// TestCSSName tests output file naming.
func TestCSSName(t *testing.T) {
	tests := []struct {
		src  source
		want string
	}{
		{source{}, "stdin.css"},
		{source{path: "a/b/site.dss"}, "site.css"},
		{source{path: "site.DSS"}, "site.css"},
		{source{path: "site.less"}, "site.less.css"},
	}

	for _, tt := range tests {
		if got := cssName(tt.src); got != tt.want {
			t.Errorf("cssName(%v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
