package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// downCaster shoots a vertical ray at the XZ point encoded in the NDC value.
type downCaster struct{}

func (downCaster) RayFromScreenPoint(ndc math.Vec2) Ray {
	return Ray{Origin: math.Vec3{X: ndc.X, Y: 100, Z: ndc.Y}, Direction: math.Vec3{Y: -1}}
}

func box(name string, y float32) *scene.Node {
	n := scene.NewMeshNode(name, &scene.Geometry{
		Bounds: math.NewBox3(math.Vec3{X: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}),
	})
	n.Position.Y = y
	return n
}

func TestPickPrefersSelectable(t *testing.T) {
	s := scene.New(nil)

	// A non-selectable canopy sits above the selectable object.
	canopy := box("canopy", 5)
	s.AddObject(canopy, false)

	obj := scene.NewNode("Tree")
	obj.Add(box("trunk", 0))
	s.AddObject(obj, true)

	p := NewPicker(s.Index())
	hit, ok := p.Pick(math.Vec2{}, downCaster{}, s.Objects())
	require.True(t, ok)
	assert.True(t, hit.Selectable)
	assert.Same(t, obj, hit.Root, "mesh resolves to its logical root")
	assert.Equal(t, "trunk", hit.Mesh.Name)
}

func TestPickFallsBackToNearest(t *testing.T) {
	s := scene.New(nil)
	low, high := box("low", 0), box("high", 5)
	s.AddObject(low, false)
	s.AddObject(high, false)

	hit, ok := NewPicker(s.Index()).Pick(math.Vec2{}, downCaster{}, s.Objects())
	require.True(t, ok)
	assert.False(t, hit.Selectable)
	assert.Same(t, high, hit.Mesh)
}

func TestPickMiss(t *testing.T) {
	s := scene.New(nil)
	s.AddObject(box("far", 0), true)

	_, ok := NewPicker(s.Index()).Pick(math.Vec2{X: 50, Y: 50}, downCaster{}, s.Objects())
	assert.False(t, ok)
}

func TestIntersectOrdersByDistance(t *testing.T) {
	s := scene.New(nil)
	a, b, c := box("a", 0), box("b", 10), box("c", 5)
	s.AddObject(a, true)
	s.AddObject(b, true)
	s.AddObject(c, true)

	hits := NewPicker(s.Index()).Intersect(downCaster{}.RayFromScreenPoint(math.Vec2{}), s.Objects())
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{hits[0].Mesh.Name, hits[1].Mesh.Name, hits[2].Mesh.Name})
}
