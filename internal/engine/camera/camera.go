// Package camera provides the editor's orbit camera. Besides the view it
// implements picking.RayCaster so clicks and gestures can cast rays through it.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/worldsmith/internal/engine/picking"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20.0,
		RotationX:       0.5,
		RotationY:       0.0,
		FovY:            75 * math32.Pi / 180,
		Aspect:          16.0 / 9.0,
		Near:            0.1,
		Far:             10000,
		MinDistance:     1.0,
		MaxDistance:     2000.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosPitch := math32.Cos(c.RotationX)
	return math.Vec3{
		X: c.Center.X + c.Distance*cosPitch*math32.Sin(c.RotationY),
		Y: c.Center.Y + c.Distance*math32.Sin(c.RotationX),
		Z: c.Center.Z + c.Distance*cosPitch*math32.Cos(c.RotationY),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for this camera.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio after a resize.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// RayFromScreenPoint returns the world ray through ndc.
func (c *OrbitCamera) RayFromScreenPoint(ndc math.Vec2) picking.Ray {
	inv := c.ProjectionMatrix().Mul(c.ViewMatrix()).Inverse()
	return picking.UnprojectNDC(ndc, inv)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Forward returns the viewing direction flattened onto the XZ plane.
func (c *OrbitCamera) Forward() math.Vec3 {
	return math.Vec3{X: -math32.Sin(c.RotationY), Z: -math32.Cos(c.RotationY)}
}

// Right returns the horizontal direction to the right of Forward.
func (c *OrbitCamera) Right() math.Vec3 {
	return c.Forward().Cross(math.Vec3{Y: 1}).Normalize()
}

// Fly moves the camera and its orbit center together. forward, right and
// up are -1, 0 or 1 per axis; the combined direction is normalized so
// diagonal moves are not faster.
func (c *OrbitCamera) Fly(forward, right, up, speed float32) {
	dir := c.Forward().Scale(forward).Add(c.Right().Scale(right))
	dir.Y += up
	if dir.LengthSq() == 0 {
		return
	}
	c.Center = c.Center.Add(dir.Normalize().Scale(speed))
}
