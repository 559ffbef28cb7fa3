package eval

import (
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/silentmatt/dss-sub000/pkg"
)

// undefined returns err annotated with name and, when one of candidates is
// close enough, a "did you mean" hint.
func undefined(err *pkg.Error, name string, candidates []string) *pkg.Error {
	err = err.With(slog.String("name", name))

	if h, ok := hint(name, candidates); ok {
		err = err.With(slog.String("hint", h))
	}

	return err
}

// hint returns the best fuzzy match for name. Candidates containing name as
// a subsequence are preferred; otherwise a candidate that is a subsequence
// of name is accepted.
func hint(name string, candidates []string) (string, bool) {
	if name == "" || len(candidates) == 0 {
		return "", false
	}

	if m := fuzzy.Find(name, candidates); len(m) > 0 {
		return m[0].Str, true
	}

	for _, c := range candidates {
		if len(c) > 1 && len(fuzzy.Find(c, []string{name})) > 0 {
			return c, true
		}
	}

	return "", false
}
