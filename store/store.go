/*package store implements the structure-of-arrays container which holds
every per-particle attribute owned by one shard.

Slot i holds "the particle currently in slot i". Identity lives in Tag, not
in the slot index, and slots are reused: the only way to delete a particle
is a compaction copy from the last owned slot (see Remove).
*/
package store

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/phil-mansfield/gosphere/extension"
	"github.com/phil-mansfield/gosphere/geom"
)

const (
	// GrowDelta is the capacity increment used by Grow(0).
	GrowDelta = 10000
	// MaxSmallInt is the largest capacity a store may have.
	MaxSmallInt = math.MaxInt32
)

var (
	// ErrTooBig is returned when a requested capacity is negative or larger
	// than MaxSmallInt.
	ErrTooBig = errors.New("store: per-shard system is too big")
	// ErrTruncate is returned when a requested capacity would drop live
	// particles.
	ErrTruncate = errors.New("store: capacity smaller than live particles")
)

// Config fixes the properties of a store which never change after creation.
type Config struct {
	Dimension int // 2 or 3
	Types     int // Number of particle types.
	Threads   int // Number of force-computing workers.
}

// Store holds all the particles owned by one shard, followed by its ghosts.
//
// Every attribute slice has length Cap(). F and Torque have one region of
// length Cap() per worker. Grow reallocates every slice, so slices taken
// from a Store before a call to Grow must not be used after it.
type Store struct {
	Config

	N      int // Owned particles, in slots [0, N).
	NGhost int // Ghost particles, in slots [N, N+NGhost).

	Tag   []int64
	Type  []int32
	Mask  []int32
	Image []int64

	X, V, F []geom.Vec

	Radius, Density, Mass []float64
	Omega, Torque         []geom.Vec

	// CoupleA and CoupleB are the six coupling coefficients to an external
	// continuum field. Their meaning is opaque here.
	CoupleA, CoupleB []geom.Vec

	// Extra holds restart extension payload which no registered module
	// claimed.
	Extra [][]float64

	Ext *extension.Registry

	nmax int
}

// New creates an empty store with zero capacity. ext may be nil.
func New(cfg Config, ext *extension.Registry) *Store {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 3
	}
	if ext == nil {
		ext = extension.NewRegistry()
	}
	return &Store{Config: cfg, Ext: ext}
}

// Cap returns the number of slots allocated for every attribute.
func (s *Store) Cap() int { return s.nmax }

// Register adds m to the store's extension registry and sizes its arrays to
// the current capacity.
func (s *Store) Register(m extension.Module) error {
	if err := s.Ext.Register(m); err != nil {
		return err
	}
	if g, ok := m.(extension.Grower); ok {
		g.GrowArrays(s.nmax)
	}
	return nil
}

// Grow resizes every attribute array. A requested size of zero increases
// the capacity by GrowDelta; any other value sets it exactly.
func (s *Store) Grow(requested int) error {
	nmax := requested
	if requested == 0 {
		nmax = s.nmax + GrowDelta
	}
	if nmax < 0 || nmax > MaxSmallInt {
		return fmt.Errorf("%w: requested %d slots", ErrTooBig, nmax)
	}
	if nmax < s.N+s.NGhost {
		return fmt.Errorf(
			"%w: requested %d slots with %d live", ErrTruncate, nmax, s.N+s.NGhost,
		)
	}

	old := s.nmax
	s.nmax = nmax

	s.Tag = resize(s.Tag, nmax)
	s.Type = resize(s.Type, nmax)
	s.Mask = resize(s.Mask, nmax)
	s.Image = resize(s.Image, nmax)
	s.X = resize(s.X, nmax)
	s.V = resize(s.V, nmax)
	s.F = resizeWorkers(s.F, old, nmax, s.Threads)

	s.Radius = resize(s.Radius, nmax)
	s.Density = resize(s.Density, nmax)
	s.Mass = resize(s.Mass, nmax)
	s.Omega = resize(s.Omega, nmax)
	s.Torque = resizeWorkers(s.Torque, old, nmax, s.Threads)

	s.CoupleA = resize(s.CoupleA, nmax)
	s.CoupleB = resize(s.CoupleB, nmax)
	s.Extra = resize(s.Extra, nmax)

	s.Ext.Grow(nmax)

	log.Debug().Int("from", old).Int("to", nmax).Msg("grew particle arrays")
	return nil
}

// Copy overwrites every attribute of slot j with those of slot i.
func (s *Store) Copy(i, j int) {
	s.Tag[j] = s.Tag[i]
	s.Type[j] = s.Type[i]
	s.Mask[j] = s.Mask[i]
	s.Image[j] = s.Image[i]
	s.X[j] = s.X[i]
	s.V[j] = s.V[i]

	s.Radius[j] = s.Radius[i]
	s.Mass[j] = s.Mass[i]
	s.Density[j] = s.Density[i]
	s.CoupleA[j] = s.CoupleA[i]
	s.CoupleB[j] = s.CoupleB[i]
	s.Omega[j] = s.Omega[i]

	for w := 0; w < s.Threads; w++ {
		off := w * s.nmax
		s.F[off+j] = s.F[off+i]
		s.Torque[off+j] = s.Torque[off+i]
	}

	if s.Extra[i] == nil {
		s.Extra[j] = nil
	} else {
		s.Extra[j] = append([]float64(nil), s.Extra[i]...)
	}

	s.Ext.Copy(i, j)
}

// Remove deletes the owned particle in slot i by copying the last owned
// particle over it. Afterwards slot i holds a different particle. Remove
// panics while ghosts are held, since the compaction would leave a gap
// between the owned and ghost ranges.
func (s *Store) Remove(i int) {
	if i < 0 || i >= s.N {
		panic(fmt.Sprintf("Slot %d is not an owned particle (N = %d).", i, s.N))
	} else if s.NGhost != 0 {
		panic(fmt.Sprintf(
			"Cannot remove slot %d while %d ghosts are held.", i, s.NGhost,
		))
	}
	last := s.N - 1
	if i != last {
		s.Copy(last, i)
	}
	s.N--
}

// MemoryUsage returns the number of bytes held by the attribute arrays.
func (s *Store) MemoryUsage() int64 {
	var bytes int64
	bytes += usage(s.Tag) + usage(s.Type) + usage(s.Mask) + usage(s.Image)
	bytes += usage(s.X) + usage(s.V) + usage(s.F)
	bytes += usage(s.Radius) + usage(s.Density) + usage(s.Mass)
	bytes += usage(s.Omega) + usage(s.Torque)
	bytes += usage(s.CoupleA) + usage(s.CoupleB)
	return bytes
}

func resize[T any](x []T, n int) []T {
	out := make([]T, n)
	copy(out, x)
	return out
}

// resizeWorkers re-lays out per-worker regions so that worker w's region
// starts at w*nmax.
func resizeWorkers(x []geom.Vec, old, nmax, workers int) []geom.Vec {
	out := make([]geom.Vec, nmax*workers)
	keep := old
	if nmax < keep {
		keep = nmax
	}
	for w := 0; w < workers && old > 0; w++ {
		copy(out[w*nmax:w*nmax+keep], x[w*old:w*old+keep])
	}
	return out
}

func usage[T any](x []T) int64 {
	var zero T
	return int64(len(x)) * int64(unsafe.Sizeof(zero))
}
