package comm

import (
	"math"

	"github.com/phil-mansfield/gosphere/geom"
)

// IntSlot stores an integer in a float64 buffer slot by reinterpreting its
// bits. It is not a numeric conversion: SlotInt(IntSlot(i)) == i for every
// int64, including those a float64 cannot represent exactly.
func IntSlot(i int64) float64 { return math.Float64frombits(uint64(i)) }

// SlotInt recovers an integer stored with IntSlot.
func SlotInt(f float64) int64 { return int64(math.Float64bits(f)) }

func appendVec(buf []float64, v geom.Vec) []float64 {
	return append(buf, v[0], v[1], v[2])
}

func readVec(buf []float64, m int) geom.Vec {
	return geom.Vec{buf[m], buf[m+1], buf[m+2]}
}
