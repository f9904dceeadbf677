package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testEps = 1e-12

func TestVecArithmetic(t *testing.T) {
	v, u := Vec{1, 2, 3}, Vec{4, -5, 6}
	assert.Equal(t, Vec{5, -3, 9}, v.Add(u))
	assert.Equal(t, Vec{-3, 7, -3}, v.Sub(u))
	assert.Equal(t, Vec{2, 4, 6}, v.Scale(2))
	assert.Equal(t, 12.0, v.Dot(u))

	v.AddAt(&u)
	assert.Equal(t, Vec{5, -3, 9}, v)
	v.Zero()
	assert.Equal(t, Vec{}, v)
}

func TestAxisRotation(t *testing.T) {
	table := []struct {
		axis     int
		in, want Vec
	}{
		{2, Vec{1, 0, 0}, Vec{0, 1, 0}},
		{0, Vec{0, 1, 0}, Vec{0, 0, 1}},
		{1, Vec{0, 0, 1}, Vec{1, 0, 0}},
	}

	for i, test := range table {
		m := AxisRotation(test.axis, math.Pi/2)
		out := m.Rotate(test.in)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, test.want[k], out[k], testEps, "%d) component %d", i+1, k)
		}
	}

	id := Identity()
	assert.Equal(t, Vec{1, 2, 3}, id.Rotate(Vec{1, 2, 3}))
	assert.Panics(t, func() { AxisRotation(3, 1) })
}
