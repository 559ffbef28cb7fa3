package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentmatt/dss-sub000/lang/scope"
)

func TestShadowing(t *testing.T) {
	root := scope.NewGlobal[int](nil)
	root.Declare("x", 1)

	child := scope.New(root)
	child.Declare("x", 2)

	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.True(t, child.DeclaresLocally("x"))

	// Dropping the child exposes the parent binding again.
	v, ok = child.Parent().Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestGet(t *testing.T) {
	root := scope.NewGlobal[string](nil)
	root.Declare("a", "root")

	s := scope.New(scope.New(root))

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "root", v)
	assert.True(t, s.Contains("a"))
	assert.False(t, s.DeclaresLocally("a"))

	v, ok = s.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, s.Contains("missing"))
}

func TestPut(t *testing.T) {
	root := scope.NewGlobal[int](nil)
	root.Declare("x", 1)

	inner := scope.New(scope.New(root))

	require.NoError(t, inner.Put("x", 5))
	assert.False(t, inner.DeclaresLocally("x"))

	v, _ := root.Get("x")
	assert.Equal(t, 5, v)

	err := inner.Put("y", 1)
	require.ErrorIs(t, err, scope.ErrUndeclaredAssignment)
	assert.False(t, inner.Contains("y"))
}

func TestGlobalWriteThrough(t *testing.T) {
	root := scope.NewGlobal[int](nil)

	s := root
	for range 3 {
		s = scope.New(s)
	}

	require.NoError(t, s.Global().Put("x", 1))

	v, ok := root.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNestedGlobal(t *testing.T) {
	root := scope.New[int](nil)
	root.Declare("outer", 1)

	g := scope.NewGlobal(root)
	child := scope.New(g)

	assert.Same(t, g, child.Global())
	assert.Same(t, root, root.Global())

	// A global scope introduces unknown names locally but still reads and
	// writes through to its ancestors.
	require.ErrorIs(t, child.Put("fresh", 2), scope.ErrUndeclaredAssignment)
	require.NoError(t, child.Global().Put("fresh", 2))
	assert.True(t, g.DeclaresLocally("fresh"))
	assert.False(t, root.Contains("fresh"))

	require.NoError(t, g.Put("outer", 3))
	v, _ := root.Get("outer")
	assert.Equal(t, 3, v)
}

func TestNames(t *testing.T) {
	root := scope.NewGlobal[int](nil)
	root.Declare("b", 1)
	root.Declare("a", 1)
	root.Declare("b", 2)

	child := scope.New(root)
	child.Declare("c", 1)
	child.Declare("a", 3)

	assert.Equal(t, []string{"b", "a"}, root.Local())
	assert.Equal(t, []string{"c", "a", "b"}, child.Names())
}
