package extension

import (
	"fmt"
)

// Property is a module which stores Width scalars per particle and carries
// them through border, exchange and restart communication.
type Property struct {
	name  string
	Width int
	Vals  []float64 // Width values per slot, slot-major.
	Vary  bool      // Report VariesRadius.
}

// NewProperty creates a Property with the given name and width.
func NewProperty(name string, width int) *Property {
	if width <= 0 {
		panic(fmt.Sprintf("Property %q needs a positive width, got %d.", name, width))
	}
	return &Property{name: name, Width: width}
}

func (p *Property) Name() string { return p.name }

// At returns the values stored for slot i.
func (p *Property) At(i int) []float64 {
	return p.Vals[i*p.Width : (i+1)*p.Width]
}

func (p *Property) VariesRadius() bool { return p.Vary }

func (p *Property) GrowArrays(nmax int) {
	vals := make([]float64, nmax*p.Width)
	copy(vals, p.Vals)
	p.Vals = vals
}

func (p *Property) CopyArrays(i, j int) {
	copy(p.At(j), p.At(i))
}

func (p *Property) PackBorder(list []int, buf []float64) []float64 {
	for _, j := range list {
		buf = append(buf, p.At(j)...)
	}
	return buf
}

func (p *Property) UnpackBorder(n, first int, buf []float64) (int, error) {
	if len(buf) < n*p.Width {
		return 0, fmt.Errorf("border payload needs %d slots, has %d", n*p.Width, len(buf))
	}
	m := 0
	for i := first; i < first+n; i++ {
		m += copy(p.At(i), buf[m:m+p.Width])
	}
	return m, nil
}

func (p *Property) PackExchange(i int, buf []float64) []float64 {
	return append(buf, p.At(i)...)
}

func (p *Property) UnpackExchange(i int, buf []float64) (int, error) {
	return p.unpackOne(i, buf)
}

func (p *Property) SizeRestart(i int) int { return p.Width }

func (p *Property) PackRestart(i int, buf []float64) []float64 {
	return append(buf, p.At(i)...)
}

func (p *Property) UnpackRestart(i int, buf []float64) (int, error) {
	return p.unpackOne(i, buf)
}

func (p *Property) unpackOne(i int, buf []float64) (int, error) {
	if len(buf) < p.Width {
		return 0, fmt.Errorf("payload needs %d slots, has %d", p.Width, len(buf))
	}
	return copy(p.At(i), buf[:p.Width]), nil
}
