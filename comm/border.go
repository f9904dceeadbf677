package comm

import (
	"fmt"

	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/store"
)

// PackBorder appends the records which create ghosts of the listed slots on
// a neighboring shard: position, tag, type, mask, radius, mass, density and
// the coupling coefficients. Registered border extensions append their own
// payload after all particles.
func (c *Codec) PackBorder(
	s *store.Store, list []int, buf []float64, pbc *domain.PBC,
) []float64 {
	im := c.borderImage(pbc)
	for _, j := range list {
		buf = appendBorder(s, j, buf, &im)
	}
	return s.Ext.PackBorder(list, buf)
}

// UnpackBorder writes n records packed by PackBorder into slots
// [first, first+n), growing the store first when a slot does not exist
// yet, and then hands the remainder of buf to the border extensions.
func (c *Codec) UnpackBorder(
	s *store.Store, n, first int, buf []float64,
) (int, error) {
	return c.unpackBorder(s, n, first, buf, false)
}

// PackBorderVel is PackBorder with velocity and angular velocity appended
// to each particle's record, remapped the same way as PackForwardVel.
func (c *Codec) PackBorderVel(
	s *store.Store, list []int, buf []float64, pbc *domain.PBC,
) []float64 {
	im := c.borderImage(pbc)
	vel := c.velocityMap(s, &im, pbc)
	for _, j := range list {
		buf = appendBorder(s, j, buf, &im)
		v, omega := vel(j)
		buf = appendVec(buf, v)
		buf = appendVec(buf, omega)
	}
	return s.Ext.PackBorder(list, buf)
}

// UnpackBorderVel is the inverse of PackBorderVel.
func (c *Codec) UnpackBorderVel(
	s *store.Store, n, first int, buf []float64,
) (int, error) {
	return c.unpackBorder(s, n, first, buf, true)
}

func (c *Codec) unpackBorder(
	s *store.Store, n, first int, buf []float64, withVel bool,
) (int, error) {
	size := SizeBorder
	if withVel {
		size = SizeBorderVel
	}
	if n < 0 || first < 0 {
		return 0, fmt.Errorf("%w: border unpack of %d slots at %d", ErrRange, n, first)
	}
	if err := need(buf, n*size, "border unpack"); err != nil {
		return 0, err
	}

	m := 0
	for i := first; i < first+n; i++ {
		for i >= s.Cap() {
			if err := s.Grow(0); err != nil {
				return m, err
			}
		}
		s.X[i] = readVec(buf, m)
		s.Tag[i] = SlotInt(buf[m+3])
		s.Type[i] = int32(SlotInt(buf[m+4]))
		s.Mask[i] = int32(SlotInt(buf[m+5]))
		m = readProps(s, i, buf, m+6)
		if withVel {
			s.V[i] = readVec(buf, m)
			s.Omega[i] = readVec(buf, m+3)
			m += 6
		}
	}

	k, err := s.Ext.UnpackBorder(n, first, buf[m:])
	if err != nil {
		return m, fmt.Errorf("border unpack: %w", err)
	}
	return m + k, nil
}

// PackBorderHybrid appends only the properties this particle kind owns.
func (c *Codec) PackBorderHybrid(
	s *store.Store, list []int, buf []float64,
) []float64 {
	for _, j := range list {
		buf = appendProps(s, j, buf)
	}
	return buf
}

// UnpackBorderHybrid writes n records packed by PackBorderHybrid into slots
// [first, first+n). The slots must already exist.
func (c *Codec) UnpackBorderHybrid(
	s *store.Store, n, first int, buf []float64,
) (int, error) {
	if err := inStore(s, n, first, "border hybrid unpack"); err != nil {
		return 0, err
	}
	if err := need(buf, n*SizeBorderHybrid, "border hybrid unpack"); err != nil {
		return 0, err
	}
	m := 0
	for i := first; i < first+n; i++ {
		m = readProps(s, i, buf, m)
	}
	return m, nil
}

func appendBorder(
	s *store.Store, j int, buf []float64, im *domain.Image,
) []float64 {
	buf = appendVec(buf, im.Point(s.X[j]))
	buf = append(buf,
		IntSlot(s.Tag[j]),
		IntSlot(int64(s.Type[j])),
		IntSlot(int64(s.Mask[j])),
	)
	return appendProps(s, j, buf)
}
