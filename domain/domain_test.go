package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/gosphere/geom"
)

const eps = 1e-12

func assertVecNear(t *testing.T, want, got geom.Vec, msg string) {
	t.Helper()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], got[k], eps, "%s: component %d", msg, k)
	}
}

func TestOrthogonalImage(t *testing.T) {
	g := &Orthogonal{Length: geom.Vec{10, 20, 30}}

	im := g.Image(PBC{1, -1, 0})
	assert.Equal(t, geom.Vec{10, -20, 0}, im.Shift)
	assert.Nil(t, im.Rotation)
	assert.Equal(t, geom.Vec{11, -18, 3}, im.Point(geom.Vec{1, 2, 3}))
	assert.Equal(t, geom.Vec{1, 2, 3}, im.Direction(geom.Vec{1, 2, 3}))

	assert.Equal(t, im, g.BorderImage(PBC{1, -1, 0}))
}

func TestTriclinicImage(t *testing.T) {
	g := &Triclinic{Length: geom.Vec{10, 20, 30}, XY: 1, XZ: 2, YZ: 3}

	table := []struct {
		pbc  PBC
		want geom.Vec
	}{
		{PBC{1, 0, 0}, geom.Vec{10, 0, 0}},
		{PBC{0, 1, 0}, geom.Vec{1, 20, 0}},
		{PBC{0, 0, 1}, geom.Vec{2, 3, 30}},
		{PBC{1, -1, 1}, geom.Vec{10 - 1 + 2, -20 + 3, 30}},
	}
	for _, test := range table {
		im := g.Image(test.pbc)
		assertVecNear(t, test.want, im.Shift, "triclinic")
	}

	border := g.BorderImage(PBC{1, -1, 0})
	assert.Equal(t, geom.Vec{1, -1, 0}, border.Shift)
}

func TestWedgeImage(t *testing.T) {
	g := &Wedge{
		Axis: 2, AngleAxis: 0,
		Center: geom.Vec{1, 1, 0},
		Angle:  math.Pi / 2,
		Length: 5,
	}

	im := g.Image(PBC{1, 0, 0})
	assert.NotNil(t, im.Rotation)
	// (2, 1) sits one unit along +x from the center; a quarter turn puts it
	// one unit along +y.
	assertVecNear(t, geom.Vec{1, 2, 7}, im.Point(geom.Vec{2, 1, 7}), "point")
	assertVecNear(t, geom.Vec{0, 1, 0}, im.Direction(geom.Vec{1, 0, 0}), "velocity")

	im = g.Image(PBC{0, 0, -1})
	assert.Nil(t, im.Rotation)
	assertVecNear(t, geom.Vec{2, 1, 2}, im.Point(geom.Vec{2, 1, 7}), "axial")

	assert.Equal(t, g.Image(PBC{1, 0, 1}), g.BorderImage(PBC{1, 0, 1}))
}

func TestVelocityOffset(t *testing.T) {
	tr := NewTransform(&Orthogonal{Length: geom.Vec{1, 1, 1}})
	assert.False(t, tr.Deforming())
	assert.False(t, tr.Remaps(^int32(0)))
	assert.Equal(t, geom.Vec{}, tr.VelocityOffset(PBC{1, 1, 1}))

	tr.Deform = &Deform{Rate: [6]float64{1, 2, 3, 4, 5, 6}, GroupBit: 1 << 2}
	assert.True(t, tr.Deforming())
	assert.True(t, tr.Remaps(1|1<<2))
	assert.False(t, tr.Remaps(1))

	dv := tr.VelocityOffset(PBC{1, -1, 2})
	assert.Equal(t, geom.Vec{1 - 6 + 2*5, -2 + 2*4, 2 * 3}, dv)
}
