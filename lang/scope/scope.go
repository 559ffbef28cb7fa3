// Package scope implements the lexically nested name environments used for
// variables, classes and class parameters.
package scope

import (
	"log/slog"
	"slices"

	"github.com/silentmatt/dss-sub000/pkg"
)

// ErrUndeclaredAssignment is returned by [Scope.Put] for a name that is not
// declared anywhere in the chain.
var ErrUndeclaredAssignment = pkg.NewError("assignment to undeclared name")

// Scope maps names to values of type T, with a link to its enclosing scope.
//
// Child scopes are created for every nested block and dropped on exit, so a
// Scope never outlives the evaluation that created it.
type Scope[T any] struct {
	parent *Scope[T]
	table  map[string]T
	order  []string
	global bool
}

// New returns an empty scope enclosed by parent, which may be nil.
func New[T any](parent *Scope[T]) *Scope[T] {
	return &Scope[T]{parent: parent, table: make(map[string]T)}
}

// NewGlobal returns an empty global scope enclosed by parent.
//
// A global scope reads through to its ancestors like any other scope, but
// [Scope.Put] introduces unknown names in the global scope itself instead of
// failing.
func NewGlobal[T any](parent *Scope[T]) *Scope[T] {
	s := New(parent)
	s.global = true

	return s
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope[T]) Parent() *Scope[T] { return s.parent }

// IsGlobal reports whether s was created with [NewGlobal].
func (s *Scope[T]) IsGlobal() bool { return s.global }

// Global returns the nearest enclosing global scope, or the root scope if
// there is none.
func (s *Scope[T]) Global() *Scope[T] {
	for c := s; ; c = c.parent {
		if c.global || c.parent == nil {
			return c
		}
	}
}

// Declare binds name to value in s, shadowing any binding in an enclosing
// scope.
func (s *Scope[T]) Declare(name string, value T) {
	if _, ok := s.table[name]; !ok {
		s.order = append(s.order, name)
	}

	s.table[name] = value
}

// Get returns the value bound to name in s or its nearest enclosing scope.
func (s *Scope[T]) Get(name string) (T, bool) {
	if owner := s.lookup(name); owner != nil {
		return owner.table[name], true
	}

	var zero T

	return zero, false
}

// Contains reports whether name is bound anywhere in the chain.
func (s *Scope[T]) Contains(name string) bool { return s.lookup(name) != nil }

// DeclaresLocally reports whether name is bound in s itself.
func (s *Scope[T]) DeclaresLocally(name string) bool {
	_, ok := s.table[name]

	return ok
}

// Put assigns value to the nearest existing binding of name.
//
// When no binding exists, a global scope declares name locally and any other
// scope fails with [ErrUndeclaredAssignment].
func (s *Scope[T]) Put(name string, value T) error {
	if owner := s.lookup(name); owner != nil {
		owner.table[name] = value

		return nil
	}

	if s.global {
		s.Declare(name, value)

		return nil
	}

	return ErrUndeclaredAssignment.With(slog.String("name", name))
}

// Local returns the names bound in s itself, in declaration order.
func (s *Scope[T]) Local() []string { return slices.Clone(s.order) }

// Names returns every name visible from s, innermost scope first. Shadowed
// names are listed once.
func (s *Scope[T]) Names() []string {
	var (
		names []string
		seen  = make(map[string]bool)
	)

	for c := s; c != nil; c = c.parent {
		for _, n := range c.order {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	return names
}

func (s *Scope[T]) lookup(name string) *Scope[T] {
	for c := s; c != nil; c = c.parent {
		if _, ok := c.table[name]; ok {
			return c
		}
	}

	return nil
}
