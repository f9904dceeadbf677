/*package comm packs particle state into flat float64 buffers and unpacks it
on the other side of a shard boundary.

There are five protocols:

    forward   refresh existing ghosts (positions, and in variable-radius
              mode the per-particle properties)
    reverse   add ghost forces and torques back onto their owners
    border    create new ghosts, carrying full identity
    exchange  move a particle to a new owner
    restart   self-describing checkpoint records

Forward and reverse unpacking write to a contiguous slot range and rely on
the receiver iterating in the same order the sender packed in. Border,
exchange and restart records carry identity explicitly. Only border,
exchange and restart consult registered extensions.

Pack methods append to the given buffer and return it. Unpack methods
return the number of slots consumed. A buffer that is shorter than its
contents require is a protocol violation, reported as an error wrapping
ErrTruncated, ErrHeader or ErrRange.
*/
package comm

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/extension"
	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/store"
)

var (
	// ErrTruncated is returned when a buffer holds fewer slots than the
	// records in it need.
	ErrTruncated = errors.New("comm: truncated buffer")
	// ErrHeader is returned when a record's length header is malformed or
	// disagrees with its contents.
	ErrHeader = errors.New("comm: bad record length header")
	// ErrRange is returned when an unpack targets slots outside the store.
	ErrRange = errors.New("comm: slot range outside store")
)

// Per-particle slot counts of the fixed part of each protocol.
const (
	SizeForwardFixed       = 3
	SizeForwardVariable    = 13
	SizeForwardVelFixed    = 9
	SizeForwardVelVariable = 19
	SizeForwardHybrid      = 9
	SizeReverse            = 6
	SizeReverseHybrid      = 3
	SizeBorder             = 15
	SizeBorderVel          = 21
	SizeBorderHybrid       = 9
	SizeExchange           = 23 // Includes the length header.
	SizeRestart            = 23 // Includes the length header.
)

// Codec packs and unpacks the particles of a store. It carries no particle
// data itself; the store is passed to every call.
type Codec struct {
	Boundary       *domain.Transform
	variableRadius bool
}

// New creates a codec that applies the given boundary transform whenever a
// caller passes a crossing vector. boundary may be nil if no caller ever
// does.
func New(boundary *domain.Transform) *Codec {
	return &Codec{Boundary: boundary}
}

// Init switches the codec into variable-radius mode if any registered
// module changes radii or masses over time. It must be called again after
// modules are registered.
func (c *Codec) Init(ext *extension.Registry) {
	c.variableRadius = ext.VariesRadius()
}

// VariableRadius returns true if forward communication carries
// per-particle properties.
func (c *Codec) VariableRadius() bool { return c.variableRadius }

// SizeForward returns the per-particle slot count of PackForward.
func (c *Codec) SizeForward() int {
	if c.variableRadius {
		return SizeForwardVariable
	}
	return SizeForwardFixed
}

// SizeForwardVel returns the per-particle slot count of PackForwardVel.
func (c *Codec) SizeForwardVel() int {
	if c.variableRadius {
		return SizeForwardVelVariable
	}
	return SizeForwardVelFixed
}

// SizeForwardHybrid returns the per-particle slot count of
// PackForwardHybrid.
func (c *Codec) SizeForwardHybrid() int {
	if c.variableRadius {
		return SizeForwardHybrid
	}
	return 0
}

func (c *Codec) image(pbc *domain.PBC) domain.Image {
	if pbc == nil {
		return domain.Image{}
	}
	return c.Boundary.Image(*pbc)
}

func (c *Codec) borderImage(pbc *domain.PBC) domain.Image {
	if pbc == nil {
		return domain.Image{}
	}
	return c.Boundary.BorderImage(*pbc)
}

// velocityMap returns the function which maps slot j's velocity and angular
// velocity onto the image selected by pbc.
func (c *Codec) velocityMap(
	s *store.Store, im *domain.Image, pbc *domain.PBC,
) func(j int) (v, omega geom.Vec) {
	if pbc == nil {
		return func(j int) (v, omega geom.Vec) { return s.V[j], s.Omega[j] }
	}
	dv := c.Boundary.VelocityOffset(*pbc)
	return func(j int) (v, omega geom.Vec) {
		vj := im.Direction(s.V[j])
		if c.Boundary.Remaps(s.Mask[j]) {
			vj = vj.Add(dv)
		}
		return vj, im.Direction(s.Omega[j])
	}
}

func need(buf []float64, n int, what string) error {
	if len(buf) < n {
		return fmt.Errorf(
			"%w: %s needs %d slots, buffer has %d", ErrTruncated, what, n, len(buf),
		)
	}
	return nil
}

func inStore(s *store.Store, n, first int, what string) error {
	if n < 0 || first < 0 || first+n > s.Cap() {
		return fmt.Errorf(
			"%w: %s of slots [%d, %d) with capacity %d",
			ErrRange, what, first, first+n, s.Cap(),
		)
	}
	return nil
}

// appendProps packs the per-particle properties which variable-radius
// forward and border communication carry.
func appendProps(s *store.Store, j int, buf []float64) []float64 {
	buf = append(buf, s.Radius[j], s.Mass[j], s.Density[j])
	buf = appendVec(buf, s.CoupleA[j])
	return appendVec(buf, s.CoupleB[j])
}

func readProps(s *store.Store, i int, buf []float64, m int) int {
	s.Radius[i] = buf[m]
	s.Mass[i] = buf[m+1]
	s.Density[i] = buf[m+2]
	s.CoupleA[i] = readVec(buf, m+3)
	s.CoupleB[i] = readVec(buf, m+6)
	return m + 9
}
