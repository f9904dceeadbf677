package extension

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// greedy claims more slots than it is given.
type greedy struct{}

func (greedy) Name() string { return "greedy" }
func (greedy) PackExchange(i int, buf []float64) []float64 { return buf }
func (greedy) UnpackExchange(i int, buf []float64) (int, error) { return len(buf) + 1, nil }

// plain has no capabilities beyond a name.
type plain string

func (p plain) Name() string { return string(p) }

func newProperty(t *testing.T, name string, width, nmax int) *Property {
	p := NewProperty(name, width)
	p.GrowArrays(nmax)
	for i := range p.Vals {
		p.Vals[i] = float64(width*100 + i)
	}
	return p
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(plain("a")))
	require.NoError(t, r.Register(NewProperty("b", 1)))

	err := r.Register(plain("a"))
	assert.True(t, errors.Is(err, ErrDuplicate))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, r.Index("b"))
	assert.Equal(t, -1, r.Index("c"))
	assert.Len(t, r.growers, 1)
	assert.Len(t, r.restarts, 1)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.VariesRadius())
	assert.Equal(t, []float64{1}, r.PackRestart(0, []float64{1}))
	n, err := r.UnpackRestart(0, []float64{1, 2})
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, r.SizeRestart(0))
	r.Grow(10)
	r.Copy(0, 1)
}

func TestVariesRadius(t *testing.T) {
	r := NewRegistry()
	p := NewProperty("p", 1)
	require.NoError(t, r.Register(p))
	assert.False(t, r.VariesRadius())
	p.Vary = true
	assert.True(t, r.VariesRadius())
}

func TestRestartOrder(t *testing.T) {
	r := NewRegistry()
	a := newProperty(t, "a", 2, 4)
	b := newProperty(t, "b", 5, 4)
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))

	assert.Equal(t, 7, r.SizeRestart(1))
	buf := r.PackRestart(1, nil)
	require.Len(t, buf, 7)
	assert.Equal(t, a.At(1), buf[:2])
	assert.Equal(t, b.At(1), buf[2:])

	a2 := newProperty(t, "a", 2, 4)
	b2 := newProperty(t, "b", 5, 4)
	r2 := NewRegistry()
	require.NoError(t, r2.Register(a2))
	require.NoError(t, r2.Register(b2))

	n, err := r2.UnpackRestart(3, buf)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, a.At(1), a2.At(3))
	assert.Equal(t, b.At(1), b2.At(3))
}

func TestBorderAndCopy(t *testing.T) {
	r := NewRegistry()
	p := newProperty(t, "p", 3, 6)
	require.NoError(t, r.Register(p))

	buf := r.PackBorder([]int{0, 2}, []float64{-1})
	require.Len(t, buf, 7)
	assert.Equal(t, -1.0, buf[0])

	n, err := r.UnpackBorder(2, 4, buf[1:])
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, p.At(0), p.At(4))
	assert.Equal(t, p.At(2), p.At(5))

	_, err = r.UnpackBorder(3, 0, buf[1:])
	assert.Error(t, err)

	r.Copy(1, 0)
	assert.Equal(t, p.At(1), p.At(0))

	r.Grow(10)
	assert.Len(t, p.Vals, 30)
	assert.Equal(t, 300.0+3, p.At(1)[0])
}

func TestOverrun(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(greedy{}))
	_, err := r.UnpackExchange(0, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrOverrun))
}
