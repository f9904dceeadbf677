package domain

import (
	"github.com/phil-mansfield/gosphere/geom"
)

// Deform describes a cell under a prescribed strain rate whose ghost
// velocities must be remapped across periodic boundaries. Rate is ordered
// xx, yy, zz, yz, xz, xy.
type Deform struct {
	Rate     [6]float64
	GroupBit int32
}

// Transform bundles the cell geometry with the optional deformation. It is
// resolved once from configuration and handed to the codecs.
type Transform struct {
	Geometry Geometry
	Deform   *Deform
}

// NewTransform returns a Transform for g which does not deform.
func NewTransform(g Geometry) *Transform {
	return &Transform{Geometry: g}
}

// Image returns the forward-communication map for the crossing pbc.
func (t *Transform) Image(pbc PBC) Image { return t.Geometry.Image(pbc) }

// BorderImage returns the border-communication map for the crossing pbc.
func (t *Transform) BorderImage(pbc PBC) Image {
	return t.Geometry.BorderImage(pbc)
}

// Deforming returns true if ghost velocities need remapping.
func (t *Transform) Deforming() bool { return t.Deform != nil }

// Remaps returns true if a particle with the given group mask has its
// velocity remapped when crossing a boundary.
func (t *Transform) Remaps(mask int32) bool {
	return t.Deform != nil && mask&t.Deform.GroupBit != 0
}

// VelocityOffset is the velocity jump across the crossing pbc implied by the
// strain rate tensor. It is zero for a cell that is not deforming.
func (t *Transform) VelocityOffset(pbc PBC) geom.Vec {
	if t.Deform == nil {
		return geom.Vec{}
	}
	h := &t.Deform.Rate
	cx, cy, cz := float64(pbc[0]), float64(pbc[1]), float64(pbc[2])
	return geom.Vec{
		cx*h[0] + cy*h[5] + cz*h[4],
		cy*h[1] + cz*h[3],
		cz * h[2],
	}
}
