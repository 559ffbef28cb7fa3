package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunCompile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("DSS_PATH", "")

	dir := t.TempDir()
	in := filepath.Join(dir, "site.dss")
	out := filepath.Join(dir, "site.css")

	if err := os.WriteFile(in, []byte("p { width: @w; color: @c }"), 0o600); err != nil {
		t.Fatal(err)
	}

	exit := func(code int) { t.Fatalf("exit(%d) called", code) }

	err := Run(t.Context(), exit,
		"--log-level=error", "-D", "w=3px", "--define", "c=red",
		"compile", "--compact", "-o", out, in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "p { width: 3px; color: red }\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
