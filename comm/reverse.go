package comm

import (
	"github.com/phil-mansfield/gosphere/store"
)

// PackReverse appends the force and torque accumulated on ghost slots
// [first, first+n). Only worker 0's region is read; per-worker regions must
// have been reduced into it beforehand.
func (c *Codec) PackReverse(
	s *store.Store, n, first int, buf []float64,
) []float64 {
	f, t := s.WorkerForces(0), s.WorkerTorques(0)
	for i := first; i < first+n; i++ {
		buf = appendVec(buf, f[i])
		buf = appendVec(buf, t[i])
	}
	return buf
}

// UnpackReverse adds the forces and torques in buf onto the listed owned
// slots. Contributions accumulate; they never overwrite.
func (c *Codec) UnpackReverse(
	s *store.Store, list []int, buf []float64,
) (int, error) {
	if err := need(buf, len(list)*SizeReverse, "reverse unpack"); err != nil {
		return 0, err
	}
	if err := checkList(s, list, "reverse unpack"); err != nil {
		return 0, err
	}

	f, t := s.WorkerForces(0), s.WorkerTorques(0)
	m := 0
	for _, j := range list {
		df, dt := readVec(buf, m), readVec(buf, m+3)
		f[j].AddAt(&df)
		t[j].AddAt(&dt)
		m += SizeReverse
	}
	return m, nil
}

// PackReverseHybrid appends only the torque of ghost slots
// [first, first+n).
func (c *Codec) PackReverseHybrid(
	s *store.Store, n, first int, buf []float64,
) []float64 {
	t := s.WorkerTorques(0)
	for i := first; i < first+n; i++ {
		buf = appendVec(buf, t[i])
	}
	return buf
}

// UnpackReverseHybrid adds the torques in buf onto the listed owned slots.
func (c *Codec) UnpackReverseHybrid(
	s *store.Store, list []int, buf []float64,
) (int, error) {
	if err := need(buf, len(list)*SizeReverseHybrid, "reverse hybrid unpack"); err != nil {
		return 0, err
	}
	if err := checkList(s, list, "reverse hybrid unpack"); err != nil {
		return 0, err
	}

	t := s.WorkerTorques(0)
	m := 0
	for _, j := range list {
		dt := readVec(buf, m)
		t[j].AddAt(&dt)
		m += SizeReverseHybrid
	}
	return m, nil
}

func checkList(s *store.Store, list []int, what string) error {
	for _, j := range list {
		if err := inStore(s, 1, j, what); err != nil {
			return err
		}
	}
	return nil
}
