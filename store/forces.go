package store

import (
	"fmt"

	"github.com/phil-mansfield/gosphere/geom"
)

// WorkerOffset returns the index of worker w's first force/torque slot.
func (s *Store) WorkerOffset(w int) int {
	if w < 0 || w >= s.Threads {
		panic(fmt.Sprintf("Worker %d out of range [0, %d).", w, s.Threads))
	}
	return w * s.nmax
}

// WorkerForces returns worker w's private force region. Worker 0's region is
// the one read and written by reverse communication.
func (s *Store) WorkerForces(w int) []geom.Vec {
	off := s.WorkerOffset(w)
	return s.F[off : off+s.nmax]
}

// WorkerTorques returns worker w's private torque region.
func (s *Store) WorkerTorques(w int) []geom.Vec {
	off := s.WorkerOffset(w)
	return s.Torque[off : off+s.nmax]
}

// ZeroForces clears the force and torque accumulators of every worker for
// the first n slots.
func (s *Store) ZeroForces(n int) {
	for w := 0; w < s.Threads; w++ {
		f, t := s.WorkerForces(w), s.WorkerTorques(w)
		for i := 0; i < n; i++ {
			f[i].Zero()
			t[i].Zero()
		}
	}
}
