package math

import "github.com/chewxy/math32"

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min Vec3
	Max Vec3
}

// NewBox3 creates a box from two opposite corners in any order.
func NewBox3(a, b Vec3) Box3 {
	return Box3{
		Min: Vec3{math32.Min(a.X, b.X), math32.Min(a.Y, b.Y), math32.Min(a.Z, b.Z)},
		Max: Vec3{math32.Max(a.X, b.X), math32.Max(a.Y, b.Y), math32.Max(a.Z, b.Z)},
	}
}

// Transform returns the box enclosing all eight corners of b transformed by m.
func (b Box3) Transform(m Mat4) Box3 {
	corners := [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
	first := m.TransformVec3(corners[0])
	out := Box3{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.TransformVec3(c)
		out.Min = Vec3{math32.Min(out.Min.X, p.X), math32.Min(out.Min.Y, p.Y), math32.Min(out.Min.Z, p.Z)}
		out.Max = Vec3{math32.Max(out.Max.X, p.X), math32.Max(out.Max.Y, p.Y), math32.Max(out.Max.Z, p.Z)}
	}
	return out
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
