// Package spatial holds the minimal transform math used by replicated
// entities: float32 vectors, quaternions, and column-major 4x4 matrices.
package spatial

import "math"

type Vec3 struct {
	X, Y, Z float32
}

// Quat is a rotation quaternion in wire component order (x, y, z, w).
type Quat struct {
	X, Y, Z, W float32
}

// Identity is the no-rotation quaternion.
func Identity() Quat { return Quat{W: 1} }

func (q Quat) Normalize() Quat {
	n := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if n == 0 {
		return Identity()
	}
	return Quat{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// Transform is a decomposed translate-rotate-scale triple. Entities store
// this form directly so partial edits overwrite exactly one field without
// any matrix decomposition loss.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

// Compose builds translate * rotate * scale.
func Compose(t Transform) Mat4 {
	q := t.Rotation.Normalize()
	x, y, z, w := q.X, q.Y, q.Z, q.W
	sx, sy, sz := t.Scale.X, t.Scale.Y, t.Scale.Z

	var m Mat4
	m[0] = (1 - 2*(y*y+z*z)) * sx
	m[1] = (2 * (x*y + w*z)) * sx
	m[2] = (2 * (x*z - w*y)) * sx
	m[4] = (2 * (x*y - w*z)) * sy
	m[5] = (1 - 2*(x*x+z*z)) * sy
	m[6] = (2 * (y*z + w*x)) * sy
	m[8] = (2 * (x*z + w*y)) * sz
	m[9] = (2 * (y*z - w*x)) * sz
	m[10] = (1 - 2*(x*x+y*y)) * sz
	m[12] = t.Position.X
	m[13] = t.Position.Y
	m[14] = t.Position.Z
	m[15] = 1
	return m
}

// Decompose splits a TRS matrix back into its parts. Negative or shear
// scales are not recovered.
func Decompose(m Mat4) Transform {
	pos := Vec3{m[12], m[13], m[14]}
	sx := length3(m[0], m[1], m[2])
	sy := length3(m[4], m[5], m[6])
	sz := length3(m[8], m[9], m[10])

	// normalize the rotation basis before extracting the quaternion
	r := m
	if sx != 0 {
		r[0], r[1], r[2] = m[0]/sx, m[1]/sx, m[2]/sx
	}
	if sy != 0 {
		r[4], r[5], r[6] = m[4]/sy, m[5]/sy, m[6]/sy
	}
	if sz != 0 {
		r[8], r[9], r[10] = m[8]/sz, m[9]/sz, m[10]/sz
	}
	return Transform{Position: pos, Rotation: quatFromBasis(r), Scale: Vec3{sx, sy, sz}}
}

func length3(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}

func quatFromBasis(r Mat4) Quat {
	trace := r[0] + r[5] + r[10]
	var q Quat
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q.W = s / 4
		q.X = (r[6] - r[9]) / s
		q.Y = (r[8] - r[2]) / s
		q.Z = (r[1] - r[4]) / s
	case r[0] > r[5] && r[0] > r[10]:
		s := float32(math.Sqrt(float64(1+r[0]-r[5]-r[10]))) * 2
		q.W = (r[6] - r[9]) / s
		q.X = s / 4
		q.Y = (r[4] + r[1]) / s
		q.Z = (r[8] + r[2]) / s
	case r[5] > r[10]:
		s := float32(math.Sqrt(float64(1+r[5]-r[0]-r[10]))) * 2
		q.W = (r[8] - r[2]) / s
		q.X = (r[4] + r[1]) / s
		q.Y = s / 4
		q.Z = (r[9] + r[6]) / s
	default:
		s := float32(math.Sqrt(float64(1+r[10]-r[0]-r[5]))) * 2
		q.W = (r[1] - r[4]) / s
		q.X = (r[8] + r[2]) / s
		q.Y = (r[9] + r[6]) / s
		q.Z = s / 4
	}
	return q.Normalize()
}
