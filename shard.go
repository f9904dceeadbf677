/*package gosphere ties together the particle store and codecs of one shard
of a distributed granular simulation.

A Shard owns every particle in one region of space. Particles move between
shards as exchange records, ghosts are created and refreshed through the
border and forward codecs in package comm, and whole shards are saved and
restored as restart records.
*/
package gosphere

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/phil-mansfield/gosphere/comm"
	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/extension"
	"github.com/phil-mansfield/gosphere/io"
	"github.com/phil-mansfield/gosphere/store"
)

var (
	// ErrGhosts is returned by operations which need a shard without ghosts.
	ErrGhosts = errors.New("gosphere: shard still holds ghosts")
	// ErrList is returned when an index list names a slot twice or a slot
	// which is not owned.
	ErrList = errors.New("gosphere: bad slot list")
)

type Shard struct {
	ID    int
	Store *store.Store
	Codec *comm.Codec
}

// NewShard creates an empty shard and registers mods in order. boundary
// may be nil if no codec is ever given a crossing vector.
func NewShard(
	id int, cfg store.Config, boundary *domain.Transform,
	mods ...extension.Module,
) (*Shard, error) {
	sh := &Shard{
		ID:    id,
		Store: store.New(cfg, nil),
		Codec: comm.New(boundary),
	}
	for _, m := range mods {
		if err := sh.Register(m); err != nil {
			return nil, err
		}
	}
	sh.Codec.Init(sh.Store.Ext)
	return sh, nil
}

// Register adds a module to the shard's store and updates the codec's
// payload mode.
func (sh *Shard) Register(m extension.Module) error {
	if err := sh.Store.Register(m); err != nil {
		return err
	}
	sh.Codec.Init(sh.Store.Ext)
	return nil
}

// ClearGhosts forgets every ghost. Their slots are reused by the next
// border unpack or incoming particle.
func (sh *Shard) ClearGhosts() { sh.Store.NGhost = 0 }

// Emigrate appends exchange records for the listed owned slots to buf, in
// list order, and removes the particles from the shard. Slot indices of
// the particles which remain may change.
func (sh *Shard) Emigrate(list []int, buf []float64) ([]float64, error) {
	s := sh.Store
	if s.NGhost != 0 {
		return buf, fmt.Errorf("%w: %d ghosts during emigration", ErrGhosts, s.NGhost)
	}

	sorted := slices.Clone(list)
	slices.Sort(sorted)
	if len(slices.Compact(sorted)) != len(list) {
		return buf, fmt.Errorf("%w: emigration list repeats a slot", ErrList)
	}
	if len(sorted) > 0 && (sorted[0] < 0 || sorted[len(sorted)-1] >= s.N) {
		return buf, fmt.Errorf(
			"%w: emigration list leaves [0, %d)", ErrList, s.N,
		)
	}

	for _, i := range list {
		buf = sh.Codec.PackExchange(s, i, buf)
	}
	// Removing from the highest index down keeps every pending index valid.
	for k := len(sorted) - 1; k >= 0; k-- {
		s.Remove(sorted[k])
	}

	log.Debug().Int("shard", sh.ID).Int("particles", len(list)).
		Int("remaining", s.N).Msg("emigrated")
	return buf, nil
}

// Immigrate appends every particle in a buffer of concatenated exchange
// records and returns how many there were. A buffer is taken whole or not at
// all: on error every particle appended from it is dropped again.
func (sh *Shard) Immigrate(buf []float64) (int, error) {
	if sh.Store.NGhost != 0 {
		return 0, fmt.Errorf(
			"%w: %d ghosts during immigration", ErrGhosts, sh.Store.NGhost,
		)
	}
	first, n := sh.Store.N, 0
	for m := 0; m < len(buf); n++ {
		size, err := sh.Codec.UnpackExchange(sh.Store, buf[m:])
		if err != nil {
			sh.Store.N = first
			return 0, fmt.Errorf("immigrant %d: %w", n, err)
		}
		m += size
	}
	return n, nil
}

// Checkpoint appends the restart records of every owned particle to buf.
func (sh *Shard) Checkpoint(buf []float64) []float64 {
	s := sh.Store
	buf = slices.Grow(buf, sh.Codec.SizeRestart(s))
	for i := 0; i < s.N; i++ {
		buf = sh.Codec.PackRestart(s, i, buf)
	}
	return buf
}

// Restore appends every particle in a buffer of concatenated restart
// records and returns how many there were. Like Immigrate, it leaves the
// store unchanged on error.
func (sh *Shard) Restore(buf []float64) (int, error) {
	if sh.Store.NGhost != 0 {
		return 0, fmt.Errorf(
			"%w: %d ghosts during restore", ErrGhosts, sh.Store.NGhost,
		)
	}
	first, n := sh.Store.N, 0
	for m := 0; m < len(buf); n++ {
		size, err := sh.Codec.UnpackRestart(sh.Store, buf[m:])
		if err != nil {
			sh.Store.N = first
			return 0, fmt.Errorf("restart record %d: %w", n, err)
		}
		m += size
	}
	return n, nil
}

// CheckpointFiles returns the names of the binary checkpoint and its
// manifest for this shard inside dir.
func (sh *Shard) CheckpointFiles(dir string) (bin, manifest string) {
	base := filepath.Join(dir, fmt.Sprintf("shard_%04d", sh.ID))
	return base + ".restart", base + ".yaml"
}

// Save writes the shard's checkpoint and manifest into dir.
func (sh *Shard) Save(dir string) error {
	bin, manifest := sh.CheckpointFiles(dir)

	if err := writeFile(manifest, func(f *os.File) error {
		return io.WriteManifest(f, io.NewManifest(sh.ID, sh.Store, sh.Codec))
	}); err != nil {
		return err
	}
	if err := writeFile(bin, func(f *os.File) error {
		return io.WriteRestart(f, sh.Store, sh.Codec)
	}); err != nil {
		return err
	}

	log.Info().Int("shard", sh.ID).Int("particles", sh.Store.N).
		Str("file", bin).Msg("saved checkpoint")
	return nil
}

// Load checks the manifest in dir against the shard and then appends the
// particles of its checkpoint. On error the store is left unchanged.
func (sh *Shard) Load(dir string) (int, error) {
	bin, manifest := sh.CheckpointFiles(dir)

	f, err := os.Open(manifest)
	if err != nil {
		return 0, err
	}
	m, err := io.ReadManifest(f)
	f.Close()
	if err != nil {
		return 0, err
	}
	if err := m.Check(sh.Store); err != nil {
		return 0, err
	}

	f, err = os.Open(bin)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := io.ReadRestart(f, sh.Store, sh.Codec)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", bin, err)
	}
	if n != m.Particles {
		sh.Store.N -= n
		return 0, fmt.Errorf(
			"%w: manifest lists %d particles, %s holds %d",
			comm.ErrHeader, m.Particles, bin, n,
		)
	}
	return n, nil
}

func writeFile(name string, write func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
