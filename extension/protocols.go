package extension

import (
	"fmt"
)

// consume runs one module's unpack step against buf[m:] and checks the
// count it reports.
func consume(
	name string, buf []float64, m int,
	unpack func(rest []float64) (int, error),
) (int, error) {
	rest := buf[m:]
	k, err := unpack(rest)
	if err != nil {
		return m, fmt.Errorf("extension %q: %w", name, err)
	}
	if k < 0 || k > len(rest) {
		return m, fmt.Errorf(
			"%w: %q consumed %d of %d slots", ErrOverrun, name, k, len(rest),
		)
	}
	return m + k, nil
}

func moduleName(x interface{}) string {
	if m, ok := x.(Module); ok {
		return m.Name()
	}
	return "?"
}

// PackBorder appends every BorderPacker's payload for the listed slots.
func (r *Registry) PackBorder(list []int, buf []float64) []float64 {
	if r == nil {
		return buf
	}
	for _, b := range r.borders {
		buf = b.PackBorder(list, buf)
	}
	return buf
}

// UnpackBorder hands buf to every BorderPacker in registration order and
// returns the total number of slots consumed.
func (r *Registry) UnpackBorder(n, first int, buf []float64) (int, error) {
	if r == nil {
		return 0, nil
	}
	m := 0
	for _, b := range r.borders {
		var err error
		m, err = consume(moduleName(b), buf, m, func(rest []float64) (int, error) {
			return b.UnpackBorder(n, first, rest)
		})
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

// PackExchange appends every ExchangePacker's payload for slot i.
func (r *Registry) PackExchange(i int, buf []float64) []float64 {
	if r == nil {
		return buf
	}
	for _, e := range r.exchanges {
		buf = e.PackExchange(i, buf)
	}
	return buf
}

// UnpackExchange hands buf to every ExchangePacker for the new slot i.
func (r *Registry) UnpackExchange(i int, buf []float64) (int, error) {
	if r == nil {
		return 0, nil
	}
	m := 0
	for _, e := range r.exchanges {
		var err error
		m, err = consume(moduleName(e), buf, m, func(rest []float64) (int, error) {
			return e.UnpackExchange(i, rest)
		})
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

// SizeRestart returns the number of restart slots all modules write for
// slot i.
func (r *Registry) SizeRestart(i int) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, rs := range r.restarts {
		n += rs.SizeRestart(i)
	}
	return n
}

// PackRestart appends every RestartPacker's payload for slot i.
func (r *Registry) PackRestart(i int, buf []float64) []float64 {
	if r == nil {
		return buf
	}
	for _, rs := range r.restarts {
		buf = rs.PackRestart(i, buf)
	}
	return buf
}

// UnpackRestart hands buf to every RestartPacker for the new slot i. Slots
// left over after the last module are not an error: they belong to modules
// which were registered when the restart was written but are not now.
func (r *Registry) UnpackRestart(i int, buf []float64) (int, error) {
	if r == nil {
		return 0, nil
	}
	m := 0
	for _, rs := range r.restarts {
		var err error
		m, err = consume(moduleName(rs), buf, m, func(rest []float64) (int, error) {
			return rs.UnpackRestart(i, rest)
		})
		if err != nil {
			return m, err
		}
	}
	return m, nil
}
