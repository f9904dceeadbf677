package io

import (
	"fmt"
	"io"
	"strconv"

	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/store"
)

// Number of columns a sphere contributes to the Atoms and Velocities lines
// of a data file written by a hybrid of several particle styles.
const (
	AtomHybridFields = 2
	VelHybridFields  = 3
)

// AtomHybrid holds the sphere columns of a hybrid Atoms line. The other
// style owns the remaining columns, id and position included.
type AtomHybrid struct {
	Diameter, Density float64
}

// ParseAtomHybrid parses the sphere columns of a hybrid Atoms line:
//
//     diameter density
func ParseAtomHybrid(fields []string) (*AtomHybrid, error) {
	if len(fields) != AtomHybridFields {
		return nil, fmt.Errorf(
			"%w: hybrid Atoms columns have %d fields, expected %d",
			ErrDataFormat, len(fields), AtomHybridFields,
		)
	}
	rec := &AtomHybrid{}
	names := [...]string{"diameter", "density"}
	vals := [...]*float64{&rec.Diameter, &rec.Density}
	for k := range vals {
		var err error
		if *vals[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
			return nil, atomError(names[k], fields[k], "not a number")
		}
	}
	return rec, nil
}

// Validate applies the same diameter and density rules as
// AtomRecord.Validate.
func (rec *AtomHybrid) Validate() error {
	switch {
	case !(rec.Diameter >= 0):
		return atomError("diameter", rec.Diameter, "must not be negative")
	case !(rec.Density > 0):
		return atomError("density", rec.Density, "must be positive")
	}
	return nil
}

// AddAtomHybrid validates rec and sets the radius, density and mass of
// slot i, which the other style has already filled in. A record which fails
// validation leaves s untouched.
func AddAtomHybrid(s *store.Store, i int, rec *AtomHybrid) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	setSphere(s, i, rec.Diameter, rec.Density)
	return nil
}

func setSphere(s *store.Store, i int, diameter, density float64) {
	s.Radius[i] = 0.5 * diameter
	s.Density[i] = density
	s.Mass[i] = store.MassOf(s.Radius[i], density, s.Dimension)
}

// ParseVelHybrid parses the sphere columns of a hybrid Velocities line:
// wx wy wz.
func ParseVelHybrid(fields []string) (geom.Vec, error) {
	var omega geom.Vec
	if len(fields) != VelHybridFields {
		return omega, fmt.Errorf(
			"%w: hybrid Velocities columns have %d fields, expected %d",
			ErrDataFormat, len(fields), VelHybridFields,
		)
	}
	for k := range omega {
		var err error
		if omega[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
			return omega, &FieldError{
				Section: "Velocities", Field: "w" + "xyz"[k:k+1],
				Value: fields[k], Reason: "not a number",
			}
		}
	}
	return omega, nil
}

// SetOmega sets the angular velocity of slot i.
func SetOmega(s *store.Store, i int, omega geom.Vec) { s.Omega[i] = omega }

// WriteAtomHybrid writes the sphere columns of slot i's hybrid Atoms line,
// each preceded by a space.
func WriteAtomHybrid(w io.Writer, s *store.Store, i int) error {
	_, err := fmt.Fprintf(w, " %-1.16e %-1.16e", 2*s.Radius[i],
		store.DensityOf(s.Mass[i], s.Radius[i], s.Dimension))
	return err
}

// WriteVelHybrid writes the sphere columns of slot i's hybrid Velocities
// line, each preceded by a space.
func WriteVelHybrid(w io.Writer, s *store.Store, i int) error {
	omega := s.Omega[i]
	_, err := fmt.Fprintf(w, " %-1.16e %-1.16e %-1.16e", omega[0], omega[1], omega[2])
	return err
}
