// Package picking turns pointer positions into world-space rays and resolves
// what they hit: the ground plane for gestures, scene objects for selection.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/worldsmith/pkg/math"
)

// parallelEpsilon is the smallest |Direction.Y| treated as crossing a
// horizontal plane.
const parallelEpsilon = 0.001

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// RayCaster builds a world-space ray through a point given in normalized
// device coordinates. Cameras implement it.
type RayCaster interface {
	RayFromScreenPoint(ndc math.Vec2) Ray
}

// UnprojectNDC converts normalized device coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func UnprojectNDC(ndc math.Vec2, invViewProj math.Mat4) Ray {
	// Unproject near and far points
	nearWorld := invViewProj.MulVec4(math.Vec4{ndc.X, ndc.Y, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndc.X, ndc.Y, 1.0, 1.0})

	// Perspective divide
	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	far := math.Vec3{X: farWorld[0], Y: farWorld[1], Z: farWorld[2]}

	return Ray{Origin: origin, Direction: far.Sub(origin).Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// ok is false when the ray is parallel to the plane or points away from it.
func (r Ray) IntersectPlaneY(planeY float32) (hit math.Vec3, ok bool) {
	// Ray: P = Origin + t * Direction
	// Plane: Y = planeY
	// Solve: Origin.Y + t * Direction.Y = planeY
	if math32.Abs(r.Direction.Y) < parallelEpsilon {
		return math.Vec3{}, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}

	hit = r.At(t)
	hit.Y = planeY
	return hit, true
}

// IntersectBox tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBox(box math.Box3) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
