package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/worldsmith/internal/scene"
)

func newTree(t *testing.T, name string) *scene.Node {
	t.Helper()
	n, err := treeLoader{}.Load(context.Background(), name)
	require.NoError(t, err)
	return n
}

func TestSelectHighlightsRepresentativeMesh(t *testing.T) {
	rec := &recorder{}
	sel := NewSelection("", rec, nil)
	tree := newTree(t, "TreeA")
	trunk, crown := tree.Children()[0], tree.Children()[1]
	bark := trunk.Mesh.Materials[0]

	sel.Select(tree)

	assert.Same(t, tree, sel.Current())
	assert.Same(t, trunk, sel.Mesh())
	require.Len(t, trunk.Mesh.Materials, 1)
	assert.Equal(t, DefaultHighlightColor, trunk.Mesh.Materials[0].Color)
	assert.True(t, trunk.Mesh.Materials[0].Unlit)
	assert.True(t, bark.Disposed(), "displaced material is released")
	assert.Equal(t, "leaves", crown.Mesh.Materials[0].Name, "other meshes keep their materials")

	require.Len(t, rec.snaps, 1)
	assert.Equal(t, "TreeA", rec.last().Name)
}

func TestDeselectRestoresOriginals(t *testing.T) {
	rec := &recorder{}
	sel := NewSelection("#00ffff", rec, nil)
	tree := newTree(t, "TreeA")
	trunk := tree.Children()[0]

	sel.Select(tree)
	overlay := trunk.Mesh.Materials[0]
	sel.Deselect()

	assert.Nil(t, sel.Current())
	require.Len(t, trunk.Mesh.Materials, 1)
	restored := trunk.Mesh.Materials[0]
	assert.Equal(t, "bark", restored.Name)
	assert.Equal(t, "#6b4f2a", restored.Color)
	assert.False(t, restored.Disposed())
	assert.True(t, overlay.Disposed())

	require.Len(t, rec.snaps, 2)
	assert.Nil(t, rec.last())
}

func TestDeselectWithoutSelectionIsNoop(t *testing.T) {
	rec := &recorder{}
	sel := NewSelection("", rec, nil)
	sel.Deselect()
	assert.Empty(t, rec.snaps)
}

func TestSelectSameRootOnlyRefreshes(t *testing.T) {
	rec := &recorder{}
	sel := NewSelection("", rec, nil)
	tree := newTree(t, "TreeA")

	sel.Select(tree)
	overlay := sel.Mesh().Mesh.Materials[0]
	sel.Select(tree)

	assert.Same(t, overlay, sel.Mesh().Mesh.Materials[0])
	assert.False(t, overlay.Disposed())
	assert.Len(t, rec.snaps, 2)
	assert.NotNil(t, rec.last())
}

func TestSelectOtherRestoresPrevious(t *testing.T) {
	sel := NewSelection("", nil, nil)
	a, b := newTree(t, "A"), newTree(t, "B")

	sel.Select(a)
	sel.Select(b)

	assert.Same(t, b, sel.Current())
	assert.Equal(t, "bark", a.FirstMesh().Mesh.Materials[0].Name)
	assert.Equal(t, DefaultHighlightColor, b.FirstMesh().Mesh.Materials[0].Color)
}

func TestSelectMultiMaterialMesh(t *testing.T) {
	sel := NewSelection("", nil, nil)
	crown := newTree(t, "T").Children()[1]

	sel.Select(crown)
	require.Len(t, crown.Mesh.Materials, 2)
	for _, m := range crown.Mesh.Materials {
		assert.Equal(t, DefaultHighlightColor, m.Color)
	}

	copies := sel.OriginalMaterials()
	require.Len(t, copies, 2)
	assert.Equal(t, "leaves", copies[0].Name)
	assert.Equal(t, "blossom", copies[1].Name)
	assert.NotSame(t, copies[0], sel.OriginalMaterials()[0])

	sel.Select(nil)
	assert.Equal(t, "leaves", crown.Mesh.Materials[0].Name)
	assert.Equal(t, "blossom", crown.Mesh.Materials[1].Name)
}

func TestSnapshotOf(t *testing.T) {
	n := scene.NewNode("")
	n.Position.X = 4
	n.Scale.Y = 2

	s := SnapshotOf(n)
	assert.Equal(t, UnknownName, s.Name)
	assert.Equal(t, float32(4), s.PosX)
	assert.Equal(t, float32(2), s.ScaleY)
	assert.Equal(t, float32(0), s.RotY)
}
