package mapper

import (
	"errors"
	"fmt"
	"sort"
)

// Dim is the lattice size of a fixture along each axis.
type Dim struct{ X, Y, Z int }

// Coord is one LED position: x, y, z.
type Coord [3]int

// Map holds one Coord per physical pixel; index i is pixel i.
type Map []Coord

// Mapper produces a pixel map. pixelCount is what the host runtime believes it is
// driving; implementations may ignore it.
type Mapper interface {
	Map(pixelCount int) Map
}

// Func lets a plain function act as a Mapper.
type Func func(pixelCount int) Map

func (f Func) Map(pixelCount int) Map { return f(pixelCount) }

var ErrUnknownMapper = errors.New("unknown mapper")

// Factory builds a mapper for the given dimensions.
type Factory func(dim Dim) Mapper

type Registry struct{ m map[string]Factory }

// NewRegistry returns a registry with the built-in mappers registered.
func NewRegistry() *Registry {
	r := &Registry{m: map[string]Factory{}}
	r.Register(VolumetricName, func(d Dim) Mapper { return NewVolumetric(d) })
	r.Register(WalledName, func(d Dim) Mapper { return NewWalled(d) })
	return r
}

func (r *Registry) Register(name string, f Factory) {
	if f == nil || name == "" {
		return
	}
	r.m[name] = f
}

// New builds the named mapper for dim.
func (r *Registry) New(name string, dim Dim) (Mapper, error) {
	f, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMapper, name)
	}
	return f(dim), nil
}

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
