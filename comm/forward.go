package comm

import (
	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/store"
)

// PackForward appends the state of the listed slots needed to refresh their
// ghosts: the position, followed in variable-radius mode by type, radius,
// mass, density and the six coupling coefficients. A non-nil pbc maps
// positions onto the corresponding periodic image.
func (c *Codec) PackForward(
	s *store.Store, list []int, buf []float64, pbc *domain.PBC,
) []float64 {
	im := c.image(pbc)
	for _, j := range list {
		buf = appendVec(buf, im.Point(s.X[j]))
		if c.variableRadius {
			buf = append(buf, IntSlot(int64(s.Type[j])))
			buf = appendProps(s, j, buf)
		}
	}
	return buf
}

// UnpackForward writes n records packed by PackForward into slots
// [first, first+n).
func (c *Codec) UnpackForward(
	s *store.Store, n, first int, buf []float64,
) (int, error) {
	if err := inStore(s, n, first, "forward unpack"); err != nil {
		return 0, err
	}
	if err := need(buf, n*c.SizeForward(), "forward unpack"); err != nil {
		return 0, err
	}

	m := 0
	for i := first; i < first+n; i++ {
		s.X[i] = readVec(buf, m)
		m += 3
		if c.variableRadius {
			s.Type[i] = int32(SlotInt(buf[m]))
			m = readProps(s, i, buf, m+1)
		}
	}
	return m, nil
}

// PackForwardVel is PackForward followed by velocity and angular velocity.
// Across a periodic boundary of a deforming cell, particles in the deform
// group have the strain-rate velocity jump added to their velocity.
func (c *Codec) PackForwardVel(
	s *store.Store, list []int, buf []float64, pbc *domain.PBC,
) []float64 {
	im := c.image(pbc)
	vel := c.velocityMap(s, &im, pbc)
	for _, j := range list {
		buf = appendVec(buf, im.Point(s.X[j]))
		if c.variableRadius {
			buf = append(buf, IntSlot(int64(s.Type[j])))
			buf = appendProps(s, j, buf)
		}
		v, omega := vel(j)
		buf = appendVec(buf, v)
		buf = appendVec(buf, omega)
	}
	return buf
}

// UnpackForwardVel writes n records packed by PackForwardVel into slots
// [first, first+n).
func (c *Codec) UnpackForwardVel(
	s *store.Store, n, first int, buf []float64,
) (int, error) {
	if err := inStore(s, n, first, "forward velocity unpack"); err != nil {
		return 0, err
	}
	if err := need(buf, n*c.SizeForwardVel(), "forward velocity unpack"); err != nil {
		return 0, err
	}

	m := 0
	for i := first; i < first+n; i++ {
		s.X[i] = readVec(buf, m)
		m += 3
		if c.variableRadius {
			s.Type[i] = int32(SlotInt(buf[m]))
			m = readProps(s, i, buf, m+1)
		}
		s.V[i] = readVec(buf, m)
		s.Omega[i] = readVec(buf, m+3)
		m += 6
	}
	return m, nil
}

// PackForwardHybrid appends only the properties this particle kind owns
// when it shares a store with other kinds: radius, mass, density and the
// coupling coefficients. It packs nothing unless radii vary in time.
func (c *Codec) PackForwardHybrid(
	s *store.Store, list []int, buf []float64,
) []float64 {
	if !c.variableRadius {
		return buf
	}
	for _, j := range list {
		buf = appendProps(s, j, buf)
	}
	return buf
}

// UnpackForwardHybrid writes n records packed by PackForwardHybrid into
// slots [first, first+n).
func (c *Codec) UnpackForwardHybrid(
	s *store.Store, n, first int, buf []float64,
) (int, error) {
	if !c.variableRadius {
		return 0, nil
	}
	if err := inStore(s, n, first, "forward hybrid unpack"); err != nil {
		return 0, err
	}
	if err := need(buf, n*SizeForwardHybrid, "forward hybrid unpack"); err != nil {
		return 0, err
	}

	m := 0
	for i := first; i < first+n; i++ {
		m = readProps(s, i, buf, m)
	}
	return m, nil
}
