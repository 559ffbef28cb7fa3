package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/silentmatt/dss-sub000/lang"
	"github.com/silentmatt/dss-sub000/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	optionsKey struct{}
	loggerKey  struct{}
)

// WithOptions returns a new context.Context carrying compile options shared
// by every subcommand.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, slices.Clip(opts))
}

// WithLogger returns a new context.Context carrying the logger handed to the
// compiler.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFrom returns the logger stored by [WithLogger]. The zero Logger
// discards everything.
func loggerFrom(ctx context.Context) log.Logger {
	l, _ := ctx.Value(loggerKey{}).(log.Logger)

	return l
}

// optionsFrom returns the options stored by [WithOptions] followed by the
// logger stored by [WithLogger].
func optionsFrom(ctx context.Context, extra ...lang.Option) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return append(append(slices.Clone(opts), lang.WithLogger(loggerFrom(ctx))), extra...)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one compiler input: a file, or stdin when path is empty.
type source struct {
	path string
}

func (s source) String() string {
	if s.path == "" {
		return "<stdin>"
	}

	return s.path
}

func (s source) isStdin() bool { return s.path == "" }

func (s source) open() (io.ReadCloser, error) {
	if s.isStdin() {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, ErrOpenInput.Wrap(err).With(slog.String("path", s.path))
	}

	return f, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// expandSources turns command-line inputs into a list of sources.
//
// Inputs containing glob metacharacters are expanded with doublestar, so
// "src/**/*.dss" matches recursively. Files reached more than once (through
// overlapping globs, symlinks or relative paths) are kept only at their first
// occurrence. Every "-" collapses into a single stdin source placed last.
func expandSources(inputs []string) ([]source, error) {
	if len(inputs) == 0 {
		inputs = []string{stdinSource}
	}

	var (
		srcs     []source
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	for _, input := range inputs {
		if input == stdinSource {
			hasStdin = true

			continue
		}

		paths, err := globPaths(input)
		if err != nil {
			return nil, err
		}

		for _, path := range paths {
			key, ok := regularFileKey(path)
			if !ok {
				continue
			}

			if stdinOK && key == stdinKey {
				hasStdin = true

				continue
			}

			if _, exists := seen[key]; exists {
				continue
			}

			seen[key] = struct{}{}
			srcs = append(srcs, source{path: path})
		}
	}

	if hasStdin {
		srcs = append(srcs, source{})
	}

	if len(srcs) == 0 {
		return nil, ErrNoInput.With(slog.Any("inputs", inputs))
	}

	return srcs, nil
}

// globPaths returns the files named by input. A plain path must exist; a
// pattern may match nothing.
func globPaths(input string) ([]string, error) {
	if !strings.ContainsAny(input, "*?[{") {
		if _, err := os.Stat(input); err != nil {
			return nil, ErrOpenInput.Wrap(err).With(slog.String("path", input))
		}

		return []string{input}, nil
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(input)) {
		return nil, ErrPattern.With(slog.String("pattern", input))
	}

	paths, err := doublestar.FilepathGlob(input)
	if err != nil {
		return nil, ErrPattern.Wrap(err).With(slog.String("pattern", input))
	}

	slices.Sort(paths)

	return paths, nil
}

// regularFileKey resolves path through symlinks and returns the key of the
// file it names. Directories and unreadable paths report false.
func regularFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
