package io

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/phil-mansfield/gosphere/comm"
	"github.com/phil-mansfield/gosphere/store"
)

/*
The binary format used for checkpoint files is as follows:
    |-- 1 --||-- 2 --||-- 3 --||-- ... 4 ... --|

    1 - (int32) Flag indicating the endianness of the file. 0 indicates a big
        endian byte ordering and -1 indicates a little endian byte order.
    2 - (int64) Number of particles in the file.
    3 - (int64) Total number of float64 slots in block 4.
    4 - ([]float64) The restart records of every particle, back to back. Each
        record starts with its own length. Integer fields are stored
        bit-for-bit in their slots.
*/

const (
	// Endianness used by default when writing checkpoints. Checkpoints of
	// either endianness can be read.
	DefaultEndiannessFlag int32 = -1

	// restartChunk is the largest number of slots read from a checkpoint
	// in one call.
	restartChunk = 1 << 16
)

// endianness converts an endianness flag to a byte order.
func endianness(flag int32) (binary.ByteOrder, error) {
	switch flag {
	case 0:
		return binary.BigEndian, nil
	case -1:
		return binary.LittleEndian, nil
	}
	return nil, fmt.Errorf("%w: unrecognized endianness flag %d", comm.ErrHeader, flag)
}

// WriteRestart writes the owned particles of s to w as a checkpoint file.
func WriteRestart(w io.Writer, s *store.Store, c *comm.Codec) error {
	buf := make([]float64, 0, c.SizeRestart(s))
	for i := 0; i < s.N; i++ {
		buf = c.PackRestart(s, i, buf)
	}

	order, _ := endianness(DefaultEndiannessFlag)
	for _, x := range []interface{}{
		DefaultEndiannessFlag, int64(s.N), int64(len(buf)), buf,
	} {
		if err := binary.Write(w, order, x); err != nil {
			return err
		}
	}
	return nil
}

// ReadRestart appends the particles of a checkpoint file to s and returns
// how many there were. Records are read one at a time, so memory grows only
// as data actually arrives, whatever the header claims. If an error occurs,
// every particle appended so far is dropped and s.N is left where it was.
func ReadRestart(r io.Reader, s *store.Store, c *comm.Codec) (int, error) {
	first := s.N
	n, err := readRestart(r, s, c)
	if err != nil {
		s.N = first
		return 0, err
	}
	return n, nil
}

func readRestart(r io.Reader, s *store.Store, c *comm.Codec) (int, error) {
	// Order doesn't matter for this read, since flags are symmetric.
	var flag int32
	if err := binary.Read(r, binary.LittleEndian, &flag); err != nil {
		return 0, truncated(err, "endianness flag")
	}
	order, err := endianness(flag)
	if err != nil {
		return 0, err
	}

	var count, total int64
	if err := binary.Read(r, order, &count); err != nil {
		return 0, truncated(err, "particle count")
	}
	if err := binary.Read(r, order, &total); err != nil {
		return 0, truncated(err, "slot count")
	}
	if count < 0 || count > store.MaxSmallInt ||
		total < count*comm.SizeRestart || total > count*int64(store.MaxSmallInt) {
		return 0, fmt.Errorf(
			"%w: checkpoint declares %d particles in %d slots",
			comm.ErrHeader, count, total,
		)
	}

	left := total
	var rec []float64
	for k := int64(0); k < count; k++ {
		var declared float64
		if err := binary.Read(r, order, &declared); err != nil {
			return 0, truncated(err, "restart records")
		}
		size, err := recordSize(declared, left)
		if err != nil {
			return 0, fmt.Errorf("particle %d of checkpoint: %w", k, err)
		}

		rec, err = readSlots(r, order, append(rec[:0], declared), size-1)
		if err != nil {
			return 0, truncated(err, "restart records")
		}
		if _, err := c.UnpackRestart(s, rec); err != nil {
			return 0, fmt.Errorf("particle %d of checkpoint: %w", k, err)
		}
		left -= size
	}
	if left != 0 {
		return 0, fmt.Errorf(
			"%w: checkpoint records use %d of %d slots",
			comm.ErrHeader, total-left, total,
		)
	}
	return int(count), nil
}

// recordSize checks the length slot of a restart record against the number
// of slots the file header says are left.
func recordSize(declared float64, left int64) (int64, error) {
	if declared != math.Trunc(declared) || declared < comm.SizeRestart ||
		declared > float64(store.MaxSmallInt) || int64(declared) > left {
		return 0, fmt.Errorf(
			"%w: restart record declares %g slots with %d left in the file",
			comm.ErrHeader, declared, left,
		)
	}
	return int64(declared), nil
}

// readSlots appends n slots from r to buf, at most restartChunk at a time.
func readSlots(
	r io.Reader, order binary.ByteOrder, buf []float64, n int64,
) ([]float64, error) {
	chunk := make([]float64, min(n, restartChunk))
	for n > 0 {
		m := min(n, restartChunk)
		if err := binary.Read(r, order, chunk[:m]); err != nil {
			return buf, err
		}
		buf = append(buf, chunk[:m]...)
		n -= m
	}
	return buf, nil
}

func truncated(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: checkpoint ends inside %s", comm.ErrTruncated, what)
	}
	return err
}
