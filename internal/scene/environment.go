package scene

import "github.com/Faultbox/worldsmith/pkg/math"

// GroundParams selects the ground texture and how often it tiles.
type GroundParams struct {
	Texture string
	Repeats float32
}

// SkyboxParams selects the skybox texture.
type SkyboxParams struct {
	Texture string
}

// SunParams describes the directional sun light.
type SunParams struct {
	Color     string
	Intensity float32
	X         float32
	Z         float32
}

// GroundMaterialFactory builds the tiled ground material.
type GroundMaterialFactory interface {
	GroundMaterial(texture string, repeats float32) *Material
}

const (
	groundSize = 2000
	groundY    = -0.5
	skySize    = 5000
	sunHeight  = 50
)

// Environment owns the non-selectable scene furniture.
type Environment struct {
	Ground GroundParams
	Skybox SkyboxParams
	Sun    SunParams

	ground *Node
	skybox *Node
}

// GroundNode returns the ground plane mesh node, nil before SetGround.
func (e *Environment) GroundNode() *Node { return e.ground }

// SkyboxNode returns the skybox mesh node, nil before SetSkybox.
func (e *Environment) SkyboxNode() *Node { return e.skybox }

// SunPosition returns the world position of the sun light.
func (e *Environment) SunPosition() math.Vec3 {
	return math.Vec3{X: e.Sun.X, Y: sunHeight, Z: e.Sun.Z}
}

func newGroundNode(mat *Material) *Node {
	half := float32(groundSize / 2)
	geom := &Geometry{
		Name:   "ground",
		Bounds: math.NewBox3(math.Vec3{X: -half, Z: -half}, math.Vec3{X: half, Z: half}),
	}
	n := NewMeshNode("ground", geom, mat)
	n.Position.Y = groundY
	return n
}

func newSkyboxNode(texture string) *Node {
	half := float32(skySize / 2)
	geom := &Geometry{
		Name:   "skybox",
		Bounds: math.NewBox3(math.Vec3{X: -half, Y: -half, Z: -half}, math.Vec3{X: half, Y: half, Z: half}),
	}
	return NewMeshNode("skybox", geom, &Material{Name: "skybox", Texture: texture, Opacity: 1, Unlit: true})
}
