package store

import (
	"github.com/phil-mansfield/gosphere/geom"
)

// Default attributes given to particles created with Create.
const (
	DefaultRadius  = 0.5
	DefaultDensity = 1.0
	DefaultCouple  = 1.0
)

// Create appends a particle of type itype at x, with every other attribute
// set to its default. The tag is left at zero for the caller to assign.
func (s *Store) Create(itype int32, x geom.Vec) error {
	i, err := s.Append()
	if err != nil {
		return err
	}

	s.Tag[i] = 0
	s.Type[i] = itype
	s.X[i] = x
	s.Mask[i] = 1
	s.Image[i] = CenteredImage()
	s.V[i] = geom.Vec{}
	s.Omega[i] = geom.Vec{}

	s.Radius[i] = DefaultRadius
	s.Density[i] = DefaultDensity
	s.Mass[i] = MassOf(DefaultRadius, DefaultDensity, s.Dimension)
	s.CoupleA[i] = geom.Vec{DefaultCouple, DefaultCouple, DefaultCouple}
	s.CoupleB[i] = geom.Vec{DefaultCouple, DefaultCouple, DefaultCouple}
	s.Extra[i] = nil

	s.N++
	return nil
}

// Append makes sure slot N exists, growing the store if needed, and returns
// N. It does not increment N. Ghosts must have been discarded (NGhost == 0)
// before particles are appended.
func (s *Store) Append() (int, error) {
	if s.N >= s.nmax {
		if err := s.Grow(0); err != nil {
			return 0, err
		}
	}
	return s.N, nil
}
