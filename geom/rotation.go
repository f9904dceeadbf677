package geom

import (
	"math"
)

// Mat is a row-major 3x3 matrix.
type Mat [9]float64

// Identity returns the identity matrix.
func Identity() Mat {
	return Mat{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// AxisRotation creates the matrix which rotates vectors counter-clockwise by
// angle radians around the given coordinate axis (0, 1 or 2).
func AxisRotation(axis int, angle float64) Mat {
	c, s := math.Cos(angle), math.Sin(angle)
	switch axis {
	case 0:
		return Mat{1, 0, 0, 0, c, -s, 0, s, c}
	case 1:
		return Mat{c, 0, s, 0, 1, 0, -s, 0, c}
	case 2:
		return Mat{c, -s, 0, s, c, 0, 0, 0, 1}
	}
	panic("axis must be 0, 1, or 2.")
}

// Rotate returns m applied to v.
func (m *Mat) Rotate(v Vec) Vec {
	return Vec{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}
