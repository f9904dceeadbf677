package store

import (
	"math"
)

// Volume returns the "volume" of a sphere of radius r: its area in two
// dimensions and its volume otherwise.
func Volume(r float64, dim int) float64 {
	if dim == 2 {
		return math.Pi * r * r
	}
	return 4 * math.Pi / 3 * r * r * r
}

// MassOf derives a particle's mass from its radius and density. A particle
// of zero radius is a point mass whose density field holds its mass.
func MassOf(r, density float64, dim int) float64 {
	if r == 0 {
		return density
	}
	return density * Volume(r, dim)
}

// DensityOf is the inverse of MassOf.
func DensityOf(mass, r float64, dim int) float64 {
	if r == 0 {
		return mass
	}
	return mass / Volume(r, dim)
}
