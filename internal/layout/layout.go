package layout

import (
	"errors"
	"fmt"

	"github.com/coreman2200/ledmap/internal/mapper"
)

// MaxPixels bounds the map a layout may generate.
const MaxPixels = 1 << 20

var (
	ErrInvalidDim = errors.New("invalid dimensions")
	ErrTooLarge   = errors.New("layout too large")
)

// Layout describes a physical fixture: its lattice, which mapper wires it and
// how many pixels the controller is set to drive.
type Layout struct {
	Dim        mapper.Dim
	Mapper     string
	PixelCount int
}

func (l Layout) Validate() error {
	if l.Dim.X <= 0 || l.Dim.Y <= 0 || l.Dim.Z <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidDim, l.Dim.X, l.Dim.Y, l.Dim.Z)
	}
	return nil
}

// Count reports how many coordinates the layout's mapper will emit, without
// generating the map. known is false for mappers that cannot tell in advance.
func (l Layout) Count(reg *mapper.Registry) (n int, known bool, err error) {
	mp, err := l.resolve(reg)
	if err != nil {
		return 0, false, err
	}
	if c, ok := mp.(mapper.Counter); ok {
		return c.Count(), true, nil
	}
	return 0, false, nil
}

func (l Layout) resolve(reg *mapper.Registry) (mapper.Mapper, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = mapper.NewRegistry()
	}
	return reg.New(l.Mapper, l.Dim)
}

// Build resolves the mapper through reg and generates the map. Layouts over
// MaxPixels are rejected before any coordinate is allocated when the mapper
// can count itself.
func (l Layout) Build(reg *mapper.Registry) (mapper.Map, error) {
	mp, err := l.resolve(reg)
	if err != nil {
		return nil, err
	}
	if c, ok := mp.(mapper.Counter); ok {
		if n := c.Count(); n > MaxPixels {
			return nil, fmt.Errorf("%w: %d pixels, limit %d", ErrTooLarge, n, MaxPixels)
		}
	}
	m := mp.Map(l.PixelCount)
	if len(m) > MaxPixels {
		return nil, fmt.Errorf("%w: %d pixels, limit %d", ErrTooLarge, len(m), MaxPixels)
	}
	return m, nil
}
