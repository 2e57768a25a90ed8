package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRegisterResolve(t *testing.T) {
	x := NewIndex()
	tree := newTree("Tree")
	x.Register(tree, true)

	assert.Equal(t, 3, x.Len())
	for _, n := range append([]*Node{tree}, tree.Children()...) {
		root, ok := x.Resolve(n)
		require.True(t, ok)
		assert.Same(t, tree, root)
		assert.True(t, x.IsSelectable(n))
	}

	// Resolution does not depend on the live parent chain.
	crown := tree.Children()[1]
	tree.Remove(crown)
	root, ok := x.Resolve(crown)
	require.True(t, ok)
	assert.Same(t, tree, root)
}

func TestIndexUnregister(t *testing.T) {
	x := NewIndex()
	a, b := newTree("A"), newTree("B")
	x.Register(a, true)
	x.Register(b, false)
	assert.Equal(t, []*Node{a}, x.Roots(), "non-selectable roots are left out")
	assert.False(t, x.IsSelectable(b.Children()[0]))

	x.Unregister(a)
	assert.Equal(t, 3, x.Len())
	assert.Empty(t, x.Roots())
	_, ok := x.Resolve(a.Children()[0])
	assert.False(t, ok)

	x.Unregister(a) // unknown root is a no-op
	assert.Equal(t, 3, x.Len())
}

func TestIndexReRegister(t *testing.T) {
	x := NewIndex()
	tree := newTree("Tree")
	x.Register(tree, false)

	leaf := NewMeshNode("leaf", unitBox())
	tree.Add(leaf)
	x.Register(tree, true)

	assert.Equal(t, []*Node{tree}, x.Roots())
	assert.True(t, x.IsSelectable(leaf))
}
