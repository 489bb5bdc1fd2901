// Package sweep lights a fixture in map order so a builder can check that the
// physical wiring agrees with the generated map.
package sweep

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmap/internal/led"
	"github.com/coreman2200/ledmap/internal/mapper"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
	PlaneZ     Kind = "plane_z"
	FaceSweep  Kind = "faces"
)

var Kinds = []Kind{IndexSweep, RGBTest, PlaneZ, FaceSweep}

// MaxFPS caps the frame rate Run will tick at.
const MaxFPS = 1000

// faceColors tints each walled face differently so a swapped face stands out.
var faceColors = [][3]byte{
	{255, 255, 255}, // top
	{255, 0, 0},     // front
	{0, 255, 0},     // right
	{0, 0, 255},     // back
	{255, 255, 0},   // left
	{255, 0, 255},   // bottom
}

type Runner struct {
	kind Kind
	m    mapper.Map
	dim  mapper.Dim
	step int
	// planes holds the distinct z values of m in ascending order.
	planes []int
}

func NewRunner(kind Kind, m mapper.Map, dim mapper.Dim) (*Runner, error) {
	if !slices.Contains(Kinds, kind) {
		return nil, fmt.Errorf("unknown sweep %q; want one of %v", kind, Kinds)
	}
	if kind == FaceSweep && len(m) != mapper.WalledCount(dim) {
		return nil, fmt.Errorf("face sweep needs a walled map of %d pixels, got %d", mapper.WalledCount(dim), len(m))
	}
	r := &Runner{kind: kind, m: m, dim: dim}
	if kind == PlaneZ {
		seen := map[int]bool{}
		for _, c := range m {
			if !seen[c[2]] {
				seen[c[2]] = true
				r.planes = append(r.planes, c[2])
			}
		}
		slices.Sort(r.planes)
	}
	return r, nil
}

func (r *Runner) Kind() Kind { return r.kind }

// Step fills rgb (3 bytes per pixel) with the next frame; returns false when the
// sweep is complete.
func (r *Runner) Step(rgb []byte) bool {
	n := len(r.m)
	if len(rgb) < n*3 {
		return false
	}
	for i := range rgb {
		rgb[i] = 0
	}

	switch r.kind {
	case IndexSweep:
		idx := r.step
		if idx >= n {
			return false
		}
		rgb[idx*3+0], rgb[idx*3+1], rgb[idx*3+2] = 255, 255, 255
	case RGBTest:
		if r.step >= 3 {
			return false
		}
		for i := 0; i < n; i++ {
			rgb[i*3+r.step] = 255
		}
	case PlaneZ:
		if r.step >= len(r.planes) {
			return false
		}
		z := r.planes[r.step]
		for i, c := range r.m {
			if c[2] == z {
				rgb[i*3+1], rgb[i*3+2] = 255, 255 // cyan
			}
		}
	case FaceSweep:
		if r.step >= len(mapper.Faces) {
			return false
		}
		f := mapper.Faces[r.step]
		start, end := mapper.FaceRange(r.dim, f)
		if end > n {
			end = n
		}
		col := faceColors[r.step]
		for i := start; i < end; i++ {
			rgb[i*3+0], rgb[i*3+1], rgb[i*3+2] = col[0], col[1], col[2]
		}
	default:
		return false
	}
	r.step++
	return true
}

// Run steps r at fps frames per second into drv until the sweep ends or ctx is
// cancelled. fps is clamped to (0, MaxFPS]; 0 or less means 4. The fixture is
// blanked before returning.
func Run(ctx context.Context, r *Runner, drv led.Driver, fps int) error {
	if fps <= 0 {
		fps = 4
	}
	if fps > MaxFPS {
		fps = MaxFPS
	}
	rgb := make([]byte, len(r.m)*3)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	blank := func() error {
		return drv.Write(make([]byte, len(rgb)))
	}
	for frame := 0; ; frame++ {
		if !r.Step(rgb) {
			log.Info().Str("sweep", string(r.Kind())).Int("frames", frame).Msg("sweep complete")
			return blank()
		}
		if err := drv.Write(rgb); err != nil {
			return fmt.Errorf("sweep frame %d: %w", frame, err)
		}
		select {
		case <-ctx.Done():
			_ = blank()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
