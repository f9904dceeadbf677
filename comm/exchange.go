package comm

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/phil-mansfield/gosphere/store"
)

// PackExchange appends the complete state of slot i so that the particle
// can move to another shard. The first slot of the record holds the total
// number of slots in it, extension payload included.
//
// The record is x, v, tag, type, mask, image, radius, mass, density, the
// six coupling coefficients and omega, then every exchange extension's
// payload, then any restart payload no registered module claimed. The
// caller removes slot i from s afterwards.
func (c *Codec) PackExchange(s *store.Store, i int, buf []float64) []float64 {
	start := len(buf)
	buf = appendState(s, i, append(buf, 0))
	buf = s.Ext.PackExchange(i, buf)
	buf = append(buf, s.Extra[i]...)
	buf[start] = float64(len(buf) - start)
	return buf
}

// UnpackExchange appends the particle in the record at the head of buf to
// s and returns the length of the record. Slots after the registered
// exchange modules' payload are kept in s.Extra, like unclaimed restart
// payload.
func (c *Codec) UnpackExchange(s *store.Store, buf []float64) (int, error) {
	size, err := recordLength(buf, SizeExchange, "exchange")
	if err != nil {
		return 0, err
	}
	i, err := s.Append()
	if err != nil {
		return 0, err
	}

	m := readState(s, i, buf, 1)
	k, err := s.Ext.UnpackExchange(i, buf[m:size])
	if err != nil {
		return 0, fmt.Errorf("exchange unpack: %w", err)
	}
	keepExtra(s, i, buf[m+k:size])

	s.N++
	return size, nil
}

// keepExtra stores payload which no registered module claimed in slot i.
func keepExtra(s *store.Store, i int, rest []float64) {
	if len(rest) == 0 {
		s.Extra[i] = nil
		return
	}
	s.Extra[i] = append([]float64(nil), rest...)
	log.Debug().Int64("tag", s.Tag[i]).Int("slots", len(rest)).
		Msg("kept unclaimed particle payload")
}

// appendState packs the fixed part shared by exchange and restart records.
func appendState(s *store.Store, i int, buf []float64) []float64 {
	buf = appendVec(buf, s.X[i])
	buf = appendVec(buf, s.V[i])
	buf = append(buf,
		IntSlot(s.Tag[i]),
		IntSlot(int64(s.Type[i])),
		IntSlot(int64(s.Mask[i])),
		IntSlot(s.Image[i]),
	)
	buf = appendProps(s, i, buf)
	return appendVec(buf, s.Omega[i])
}

func readState(s *store.Store, i int, buf []float64, m int) int {
	s.X[i] = readVec(buf, m)
	s.V[i] = readVec(buf, m+3)
	s.Tag[i] = SlotInt(buf[m+6])
	s.Type[i] = int32(SlotInt(buf[m+7]))
	s.Mask[i] = int32(SlotInt(buf[m+8]))
	s.Image[i] = SlotInt(buf[m+9])
	m = readProps(s, i, buf, m+10)
	s.Omega[i] = readVec(buf, m)
	return m + 3
}

// recordLength validates the length header at buf[0] of a self-describing
// record whose fixed part is fixed slots long.
func recordLength(buf []float64, fixed int, what string) (int, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty %s record", ErrTruncated, what)
	}
	declared := buf[0]
	if declared != math.Trunc(declared) || declared < float64(fixed) ||
		declared > float64(store.MaxSmallInt) {
		return 0, fmt.Errorf(
			"%w: %s record declares %g slots, fixed part is %d",
			ErrHeader, what, declared, fixed,
		)
	}
	size := int(declared)
	if err := need(buf, size, what+" record"); err != nil {
		return 0, err
	}
	return size, nil
}
