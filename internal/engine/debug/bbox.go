// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/worldsmith/pkg/math"
)

// BoxLineVertexCount is the number of vertices in a box wireframe (12 edges x 2).
const BoxLineVertexCount = 24

// boxEdges lists the corner pairs of a box's 12 edges. Corner i takes
// x from bit 0, y from bit 1 and z from bit 2.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
}

// BoxCorners returns the eight corners of b.
func BoxCorners(b math.Box3) [8]math.Vec3 {
	var corners [8]math.Vec3
	for i := range corners {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		corners[i] = c
	}
	return corners
}

// AppendBoxLines appends the line-list endpoints of b's wireframe to dst,
// grown by padding on every side.
func AppendBoxLines(dst []math.Vec3, b math.Box3, padding float32) []math.Vec3 {
	if padding != 0 {
		pad := math.Vec3{X: padding, Y: padding, Z: padding}
		b = math.Box3{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
	}
	corners := BoxCorners(b)
	for _, e := range boxEdges {
		dst = append(dst, corners[e[0]], corners[e[1]])
	}
	return dst
}
