package ast

import "slices"

// Declaration is a "name: value" pair.
type Declaration struct {
	Condition BoolExpr
	Name      string
	Value     Expression
	Pos       Position
	Important bool
}

// String returns the declaration as CSS text without a trailing semicolon.
func (d Declaration) String() string {
	s := d.Name + ": " + d.Value.String()
	if d.Important {
		s += " !important"
	}

	return s
}

// Declarations is an ordered declaration list.
type Declarations []Declaration

// Get returns the effective declaration named name. The last match wins,
// except that an important declaration wins over later ones that are not.
func (ds Declarations) Get(name string) (Declaration, bool) {
	var (
		found Declaration
		ok    bool
	)

	for _, d := range ds {
		if d.Name != name {
			continue
		}

		if ok && found.Important && !d.Important {
			continue
		}

		found, ok = d, true
	}

	return found, ok
}

// Has reports whether a declaration named name is present.
func (ds Declarations) Has(name string) bool {
	return slices.ContainsFunc(ds, func(d Declaration) bool {
		return d.Name == name
	})
}

// Clone returns a shallow copy of the list. Terms are immutable, so the
// copy can be extended and rewritten without affecting ds.
func (ds Declarations) Clone() Declarations { return slices.Clone(ds) }
