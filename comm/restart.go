package comm

import (
	"fmt"

	"github.com/phil-mansfield/gosphere/store"
)

// SizeRestart returns the number of slots PackRestart writes for all owned
// particles of s, extension payload included.
func (c *Codec) SizeRestart(s *store.Store) int {
	n := SizeRestart * s.N
	for i := 0; i < s.N; i++ {
		n += s.Ext.SizeRestart(i) + len(s.Extra[i])
	}
	return n
}

// PackRestart appends a checkpoint record for slot i. It has the same
// shape as an exchange record, with restart extensions in place of exchange
// extensions. Payload of modules which are no longer registered is written
// back out after the registered modules' payload.
func (c *Codec) PackRestart(s *store.Store, i int, buf []float64) []float64 {
	start := len(buf)
	buf = appendState(s, i, append(buf, 0))
	buf = s.Ext.PackRestart(i, buf)
	buf = append(buf, s.Extra[i]...)
	buf[start] = float64(len(buf) - start)
	return buf
}

// UnpackRestart appends the particle in the checkpoint record at the head
// of buf to s and returns the length of the record.
//
// The extension payload is whatever the header declares beyond the fixed
// part; its size may differ between particles and between runs. Registered
// restart modules consume it in registration order and anything left over
// is kept in s.Extra.
func (c *Codec) UnpackRestart(s *store.Store, buf []float64) (int, error) {
	size, err := recordLength(buf, SizeRestart, "restart")
	if err != nil {
		return 0, err
	}
	i, err := s.Append()
	if err != nil {
		return 0, err
	}

	m := readState(s, i, buf, 1)
	ext := buf[m:size]
	k, err := s.Ext.UnpackRestart(i, ext)
	if err != nil {
		return 0, fmt.Errorf("restart unpack: %w", err)
	}

	keepExtra(s, i, ext[k:])
	s.N++
	return size, nil
}
