/*package domain computes how particle state maps onto the periodic images of
the simulation cell. It is consulted by every codec whose caller sets a
periodic flag.
*/
package domain

import (
	"github.com/phil-mansfield/gosphere/geom"
)

// PBC holds one signed crossing count per axis: the number of box replicas
// a communicated image lies away from the sender.
type PBC [3]int

func (pbc PBC) vec() geom.Vec {
	return geom.Vec{float64(pbc[0]), float64(pbc[1]), float64(pbc[2])}
}

// Image describes the map from a particle to one of its periodic replicas.
// A nil Rotation is the identity.
type Image struct {
	Shift    geom.Vec
	Rotation *geom.Mat
}

// Point maps a position onto the image.
func (im *Image) Point(x geom.Vec) geom.Vec {
	if im.Rotation != nil {
		x = im.Rotation.Rotate(x)
	}
	return x.Add(im.Shift)
}

// Direction maps a direction-like quantity (velocity, angular velocity)
// onto the image. Translations leave directions unchanged.
func (im *Image) Direction(v geom.Vec) geom.Vec {
	if im.Rotation != nil {
		return im.Rotation.Rotate(v)
	}
	return v
}

// Geometry is the shape of the simulation cell. The set of implementations
// is closed: Orthogonal, Triclinic and Wedge.
type Geometry interface {
	// Image returns the map used by forward communication.
	Image(pbc PBC) Image
	// BorderImage returns the map used when ghosts are first created.
	BorderImage(pbc PBC) Image

	geometry()
}

// Orthogonal is a rectangular periodic box with the given edge lengths.
type Orthogonal struct {
	Length geom.Vec
}

func (o *Orthogonal) Image(pbc PBC) Image {
	return Image{Shift: geom.Vec{
		float64(pbc[0]) * o.Length[0],
		float64(pbc[1]) * o.Length[1],
		float64(pbc[2]) * o.Length[2],
	}}
}

func (o *Orthogonal) BorderImage(pbc PBC) Image { return o.Image(pbc) }

func (o *Orthogonal) geometry() {}

// Triclinic is a sheared periodic box. XY, XZ and YZ are the tilt factors.
type Triclinic struct {
	Length     geom.Vec
	XY, XZ, YZ float64
}

// Image couples the axes: x picks up the y and z crossings through the
// shear tilts, y picks up the z crossing, and z is independent.
func (tri *Triclinic) Image(pbc PBC) Image {
	cx, cy, cz := float64(pbc[0]), float64(pbc[1]), float64(pbc[2])
	return Image{Shift: geom.Vec{
		cx*tri.Length[0] + cy*tri.XY + cz*tri.XZ,
		cy*tri.Length[1] + cz*tri.YZ,
		cz * tri.Length[2],
	}}
}

// BorderImage shifts by the bare crossing vector since border positions of
// a triclinic cell travel in reduced (unit cube) coordinates.
func (tri *Triclinic) BorderImage(pbc PBC) Image {
	return Image{Shift: pbc.vec()}
}

func (tri *Triclinic) geometry() {}

// Wedge is a cylindrical sector which is periodic in angle. A crossing along
// AngleAxis rotates the particle by Angle around Axis through Center; a
// crossing along Axis translates it by Length.
type Wedge struct {
	Axis, AngleAxis int
	Center          geom.Vec
	Angle           float64
	Length          float64
}

func (w *Wedge) Image(pbc PBC) Image {
	im := Image{}
	if turns := pbc[w.AngleAxis]; turns != 0 {
		rot := geom.AxisRotation(w.Axis, float64(turns)*w.Angle)
		im.Rotation = &rot
		im.Shift = w.Center.Sub(rot.Rotate(w.Center))
		im.Shift[w.Axis] = 0
	}
	im.Shift[w.Axis] += float64(pbc[w.Axis]) * w.Length
	return im
}

func (w *Wedge) BorderImage(pbc PBC) Image { return w.Image(pbc) }

func (w *Wedge) geometry() {}
