// Package resource locates and opens the documents named by @include.
package resource

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/silentmatt/dss-sub000/pkg"
)

// ErrIO is returned for every failure to resolve or read a resource.
var ErrIO = pkg.NewError("I/O error")

// Locator resolves references and opens the resources they name.
type Locator interface {
	// Resolve returns the URL that ref denotes relative to base.
	Resolve(base, ref string) string
	// Open returns a reader for the resource at url.
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// IsRemote reports whether u is an http or https URL.
func IsRemote(u string) bool {
	s := strings.ToLower(u)

	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve resolves ref against base. Remote bases use URL reference
// resolution; anything else is treated as a file path.
func Resolve(base, ref string) string {
	if IsRemote(ref) || base == "" {
		return filePath(ref)
	}

	if IsRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}

		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}

		return b.ResolveReference(r).String()
	}

	ref = filePath(ref)
	if filepath.IsAbs(ref) {
		return ref
	}

	return filepath.Join(filepath.Dir(filePath(base)), ref)
}

func filePath(u string) string {
	if strings.HasPrefix(u, "file://") {
		if p, err := url.Parse(u); err == nil {
			return filepath.FromSlash(p.Path)
		}
	}

	return u
}

// Default opens local files and http(s) URLs. Relative names that do not
// exist next to their base are looked up in SearchPath.
type Default struct {
	Client     *http.Client
	SearchPath []string
}

// Resolve implements [Locator].
func (d Default) Resolve(base, ref string) string {
	u := Resolve(base, ref)
	if IsRemote(u) || filepath.IsAbs(filePath(ref)) || exists(u) {
		return u
	}

	for _, dir := range d.SearchPath {
		if p := filepath.Join(dir, filePath(ref)); exists(p) {
			return p
		}
	}

	return u
}

// Open implements [Locator].
func (d Default) Open(ctx context.Context, u string) (io.ReadCloser, error) {
	if IsRemote(u) {
		return d.get(ctx, u)
	}

	f, err := os.Open(filePath(u))
	if err != nil {
		return nil, ErrIO.With(slog.String("url", u)).Wrap(err)
	}

	return f, nil
}

func (d Default) get(ctx context.Context, u string) (io.ReadCloser, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, ErrIO.With(slog.String("url", u)).Wrap(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ErrIO.With(slog.String("url", u)).Wrap(err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return nil, ErrIO.With(
			slog.String("url", u),
			slog.Int("status", resp.StatusCode),
		)
	}

	return resp.Body, nil
}

// Map serves resources from memory, keyed by resolved URL.
type Map map[string]string

// Resolve implements [Locator].
func (m Map) Resolve(base, ref string) string { return Resolve(base, ref) }

// Open implements [Locator].
func (m Map) Open(_ context.Context, u string) (io.ReadCloser, error) {
	s, ok := m[u]
	if !ok {
		return nil, ErrIO.With(slog.String("url", u)).Wrap(fs.ErrNotExist)
	}

	return io.NopCloser(strings.NewReader(s)), nil
}

func exists(p string) bool {
	_, err := os.Stat(p)

	return err == nil
}
