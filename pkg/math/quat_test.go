package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromEulerYaw(t *testing.T) {
	// A pure yaw must match the axis-angle rotation about Y.
	got := QuatFromEuler(Vec3{Y: 1})
	want := QuatFromAxisAngle(Vec3{Y: 1}, 1)
	if !got.ApproxEqual(want, 1e-6) {
		t.Errorf("QuatFromEuler yaw: got %+v, want %+v", got, want)
	}
}

func TestQuatEulerRoundTrip(t *testing.T) {
	tests := []Vec3{
		{0, 0, 0},
		{0, 1, 0},
		{0.3, -0.4, 0.5},
		{-1.2, 0.7, 2.5},
		{0, -1.5, 0},
	}

	for _, e := range tests {
		got := QuatFromEuler(e).Euler()
		if !got.ApproxEqual(e, 1e-4) {
			t.Errorf("Euler round trip of %v: got %v", e, got)
		}
	}
}

func TestQuatMulComposesYaw(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{Y: 1}, 0.25)
	b := QuatFromAxisAngle(Vec3{Y: 1}, 0.5)

	got := a.Mul(b).Euler().Y
	if math.Abs(float64(got-0.75)) > 1e-5 {
		t.Errorf("Mul of yaws: got %v, want 0.75", got)
	}
}
