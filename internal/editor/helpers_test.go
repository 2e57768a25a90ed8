package editor

import (
	"context"

	"github.com/Faultbox/worldsmith/internal/assets"
	"github.com/Faultbox/worldsmith/internal/engine/picking"
	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// topDownCamera looks straight down. NDC (x, y) maps to world
// (x*extent, -y*extent) on the ground plane.
type topDownCamera struct {
	extent   float32
	parallel bool
	flown    math.Vec3
}

func (c *topDownCamera) RayFromScreenPoint(ndc math.Vec2) picking.Ray {
	origin := math.Vec3{X: ndc.X * c.extent, Y: 50, Z: -ndc.Y * c.extent}
	if c.parallel {
		return picking.Ray{Origin: origin, Direction: math.Vec3{X: 1}}
	}
	return picking.Ray{Origin: origin, Direction: math.Vec3{Y: -1}}
}

func (c *topDownCamera) Fly(forward, right, up, speed float32) {
	c.flown = c.flown.Add(math.Vec3{X: right, Y: up, Z: -forward}.Scale(speed))
}

// treeLoader builds models with a trunk and a two-material crown.
type treeLoader struct{}

func (treeLoader) Load(_ context.Context, name string) (*scene.Node, error) {
	if name == "Missing" {
		return nil, assets.ErrModelNotFound
	}
	root := scene.NewNode(name)
	trunk := scene.NewMeshNode("trunk",
		&scene.Geometry{Name: "trunk", Bounds: math.NewBox3(math.Vec3{X: -1, Z: -1}, math.Vec3{X: 1, Y: 2, Z: 1})},
		&scene.Material{Name: "bark", Color: "#6b4f2a", Opacity: 1},
	)
	crown := scene.NewMeshNode("crown",
		&scene.Geometry{Name: "crown", Bounds: math.NewBox3(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})},
		&scene.Material{Name: "leaves", Color: "#2f7d32", Opacity: 1},
		&scene.Material{Name: "blossom", Color: "#e091b8", Opacity: 1},
	)
	crown.Position.Y = 3
	root.Add(trunk)
	root.Add(crown)
	return root, nil
}

type flatMaterials struct{}

func (flatMaterials) GroundMaterial(texture string, repeats float32) *scene.Material {
	return &scene.Material{Name: texture, Texture: texture, Repeats: repeats, Opacity: 1}
}

// recorder keeps every snapshot it is sent.
type recorder struct {
	snaps []*Snapshot
}

func (r *recorder) OnSelectionChanged(s *Snapshot) { r.snaps = append(r.snaps, s) }

func (r *recorder) last() *Snapshot {
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

// testKeys mirrors the default bindings.
var testKeys = struct {
	move, rotate, scale, duplicate, delete string
}{"a", "r", "e", "m", "delete"}

// Viewport used by editor tests: 100x100 pixels over a 10-unit extent, so
// world x = px/5 - 10 and world z = py/5 - 10.
const viewport = 100

func pixelFor(x, z float32) (px, py float32) {
	return (x + 10) * 5, (z + 10) * 5
}
