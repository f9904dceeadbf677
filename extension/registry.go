/*package extension lets external modules attach per-particle data of their
own to the particle store and to every wire protocol which supports it
(border, exchange and restart). Modules are consulted in the order they were
registered, on both the packing and the unpacking side.

Forward and reverse communication never consult extensions.
*/
package extension

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var (
	// ErrDuplicate is returned when a module name is registered twice.
	ErrDuplicate = errors.New("extension: duplicate module")
	// ErrOverrun is returned when a module claims to have consumed more
	// slots than remain in the buffer handed to it.
	ErrOverrun = errors.New("extension: module overran its payload")
)

// Module is the minimal contract of an extension. Everything else a module
// can do is declared by implementing the optional interfaces below.
type Module interface {
	Name() string
}

// Grower keeps per-particle arrays sized to the store's capacity.
type Grower interface {
	GrowArrays(nmax int)
}

// Copier mirrors store compaction copies.
type Copier interface {
	CopyArrays(i, j int)
}

// BorderPacker rides along with border (ghost creation) communication.
type BorderPacker interface {
	PackBorder(list []int, buf []float64) []float64
	UnpackBorder(n, first int, buf []float64) (int, error)
}

// ExchangePacker rides along with ownership exchange.
type ExchangePacker interface {
	PackExchange(i int, buf []float64) []float64
	UnpackExchange(i int, buf []float64) (int, error)
}

// RestartPacker rides along with restart records. SizeRestart may differ
// from particle to particle.
type RestartPacker interface {
	SizeRestart(i int) int
	PackRestart(i int, buf []float64) []float64
	UnpackRestart(i int, buf []float64) (int, error)
}

// RadiusVarier is implemented by modules which change particle radii or
// masses over time, forcing ghosts to carry them every step.
type RadiusVarier interface {
	VariesRadius() bool
}

// Registry is an ordered list of modules. Capabilities are resolved once,
// at registration. The zero value and a nil *Registry are both empty.
type Registry struct {
	modules   []Module
	growers   []Grower
	copiers   []Copier
	borders   []BorderPacker
	exchanges []ExchangePacker
	restarts  []RestartPacker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// Register appends m to the registry.
func (r *Registry) Register(m Module) error {
	name := m.Name()
	if r.Index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	r.modules = append(r.modules, m)
	if g, ok := m.(Grower); ok {
		r.growers = append(r.growers, g)
	}
	if c, ok := m.(Copier); ok {
		r.copiers = append(r.copiers, c)
	}
	if b, ok := m.(BorderPacker); ok {
		r.borders = append(r.borders, b)
	}
	if e, ok := m.(ExchangePacker); ok {
		r.exchanges = append(r.exchanges, e)
	}
	if rs, ok := m.(RestartPacker); ok {
		r.restarts = append(r.restarts, rs)
	}
	return nil
}

// Index returns the registration position of the named module, or -1.
func (r *Registry) Index(name string) int {
	if r == nil {
		return -1
	}
	return slices.IndexFunc(r.modules, func(m Module) bool {
		return m.Name() == name
	})
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []Module {
	if r == nil {
		return nil
	}
	return slices.Clone(r.modules)
}

// Names returns the names of the registered modules in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.modules))
	for i, m := range r.modules {
		names[i] = m.Name()
	}
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.modules)
}

// VariesRadius returns true if any module changes radii or masses in time.
func (r *Registry) VariesRadius() bool {
	if r == nil {
		return false
	}
	for _, m := range r.modules {
		if rv, ok := m.(RadiusVarier); ok && rv.VariesRadius() {
			return true
		}
	}
	return false
}

// Grow tells every Grower the store's new capacity.
func (r *Registry) Grow(nmax int) {
	if r == nil {
		return
	}
	for _, g := range r.growers {
		g.GrowArrays(nmax)
	}
}

// Copy mirrors a compaction copy of slot i onto slot j.
func (r *Registry) Copy(i, j int) {
	if r == nil {
		return
	}
	for _, c := range r.copiers {
		c.CopyArrays(i, j)
	}
}
