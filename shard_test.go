package gosphere

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gosphere/comm"
	"github.com/phil-mansfield/gosphere/domain"
	"github.com/phil-mansfield/gosphere/extension"
	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/logging/testlog"
	"github.com/phil-mansfield/gosphere/store"
)

var cfg = store.Config{Dimension: 3, Types: 2}

func newShard(t *testing.T, id, n int, mods ...extension.Module) *Shard {
	box := domain.NewTransform(&domain.Orthogonal{Length: geom.Vec{1, 1, 1}})
	sh, err := NewShard(id, cfg, box, mods...)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, sh.Store.Create(1, geom.Vec{float64(i), 0, 0}))
		sh.Store.Tag[i] = int64(100 + i)
	}
	return sh
}

func tags(s *store.Store) map[int64]bool {
	out := map[int64]bool{}
	for i := 0; i < s.N; i++ {
		out[s.Tag[i]] = true
	}
	return out
}

func TestNewShard(t *testing.T) {
	testlog.Start(t)
	v := extension.NewProperty("v", 1)
	v.Vary = true
	sh := newShard(t, 0, 0, v)
	assert.True(t, sh.Codec.VariableRadius())

	_, err := NewShard(1, cfg, nil,
		extension.NewProperty("p", 1), extension.NewProperty("p", 2))
	assert.True(t, errors.Is(err, extension.ErrDuplicate))
}

func TestMigrate(t *testing.T) {
	testlog.Start(t)
	p := extension.NewProperty("p", 1)
	src := newShard(t, 0, 6, p)
	for i := 0; i < 6; i++ {
		p.At(i)[0] = float64(i * i)
	}

	buf, err := src.Emigrate([]int{5, 1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, src.Store.N)
	assert.Equal(t, map[int64]bool{100: true, 103: true, 104: true}, tags(src.Store))
	for i := 0; i < src.Store.N; i++ {
		k := src.Store.Tag[i] - 100
		assert.Equal(t, float64(k*k), p.At(i)[0])
		assert.Equal(t, float64(k), src.Store.X[i][0])
	}

	q := extension.NewProperty("p", 1)
	dst := newShard(t, 1, 1, q)
	n, err := dst.Immigrate(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int64{100, 105, 101, 102}, dst.Store.Tag[:4])
	assert.Equal(t, []float64{25, 1, 4}, q.Vals[1:4])
}

func TestEmigrateErrors(t *testing.T) {
	testlog.Start(t)
	sh := newShard(t, 0, 3)
	_, err := sh.Emigrate([]int{1, 1}, nil)
	assert.True(t, errors.Is(err, ErrList))
	_, err = sh.Emigrate([]int{3}, nil)
	assert.True(t, errors.Is(err, ErrList))
	_, err = sh.Emigrate([]int{-1}, nil)
	assert.True(t, errors.Is(err, ErrList))

	sh.Store.NGhost = 1
	_, err = sh.Emigrate([]int{0}, nil)
	assert.True(t, errors.Is(err, ErrGhosts))
	_, err = sh.Immigrate(nil)
	assert.True(t, errors.Is(err, ErrGhosts))
	sh.ClearGhosts()

	buf, err := sh.Emigrate(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, buf)
	assert.Equal(t, 3, sh.Store.N)
}

func TestImmigrateTruncated(t *testing.T) {
	testlog.Start(t)
	src := newShard(t, 0, 2)
	buf, err := src.Emigrate([]int{0, 1}, nil)
	require.NoError(t, err)

	dst := newShard(t, 1, 1)
	n, err := dst.Immigrate(buf[:len(buf)-1])
	assert.True(t, errors.Is(err, comm.ErrTruncated))
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, dst.Store.N)

	n, err = dst.Immigrate(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{100, 100, 101}, dst.Store.Tag[:3])
}

func TestRestoreRollback(t *testing.T) {
	testlog.Start(t)
	src := newShard(t, 0, 3, extension.NewProperty("p", 2))
	buf := src.Checkpoint(nil)

	dst := newShard(t, 0, 2, extension.NewProperty("p", 2))
	n, err := dst.Restore(buf[:len(buf)-3])
	assert.True(t, errors.Is(err, comm.ErrTruncated))
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, dst.Store.N)

	bad := append([]float64{}, buf...)
	bad[comm.SizeRestart+2] = 0.5
	_, err = dst.Restore(bad)
	assert.True(t, errors.Is(err, comm.ErrHeader))
	assert.Equal(t, 2, dst.Store.N)
}

func TestMigrateUnclaimedPayload(t *testing.T) {
	testlog.Start(t)
	a, b := extension.NewProperty("a", 2), extension.NewProperty("b", 5)
	src := newShard(t, 0, 3, a, b)
	for i := range a.Vals[:6] {
		a.Vals[i] = float64(i)
	}
	for i := range b.Vals[:15] {
		b.Vals[i] = float64(-i)
	}
	checkpoint := src.Checkpoint(nil)

	// Both shards below lack module b, so its payload rides along as
	// unclaimed data through the restore and the migration.
	mid := newShard(t, 0, 0, extension.NewProperty("a", 2))
	_, err := mid.Restore(checkpoint)
	require.NoError(t, err)
	buf, err := mid.Emigrate([]int{0, 1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, mid.Store.N)

	dst := newShard(t, 1, 0, extension.NewProperty("a", 2))
	n, err := dst.Immigrate(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for i := 0; i < 3; i++ {
		assert.Equal(t, b.At(i), dst.Store.Extra[i])
	}
	assert.Equal(t, 3*(comm.SizeRestart+7), dst.Codec.SizeRestart(dst.Store))
	assert.Equal(t, checkpoint, dst.Checkpoint(nil))
}

func TestCheckpoint(t *testing.T) {
	testlog.Start(t)
	src := newShard(t, 0, 4, extension.NewProperty("p", 3))
	buf := src.Checkpoint(nil)
	assert.Len(t, buf, 4*(comm.SizeRestart+3))

	dst := newShard(t, 0, 0, extension.NewProperty("p", 3))
	n, err := dst.Restore(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, src.Store.Tag[:4], dst.Store.Tag[:4])
	assert.Equal(t, buf, dst.Checkpoint(nil))
}

func TestSaveLoad(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	src := newShard(t, 7, 5, extension.NewProperty("p", 2))
	require.NoError(t, src.Save(dir))

	dst := newShard(t, 7, 0, extension.NewProperty("p", 2))
	n, err := dst.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, src.Store.X[:5], dst.Store.X[:5])

	other := newShard(t, 8, 0)
	_, err = other.Load(dir)
	assert.Error(t, err)

	bin, _ := src.CheckpointFiles(dir)
	info, err := os.Stat(bin)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(bin, info.Size()-8))
	n, err = dst.Load(dir)
	assert.True(t, errors.Is(err, comm.ErrTruncated))
	assert.Equal(t, 0, n)
	assert.Equal(t, 5, dst.Store.N)
}
