// Package pixelblaze reads and writes pixel maps in the forms the Pixelblaze
// mapper tab accepts: a JSON array of coordinate arrays, or a mapper function.
package pixelblaze

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/coreman2200/ledmap/internal/mapper"
)

var ErrBadEntry = errors.New("bad map entry")

// Point is a scaled, possibly fractional, map coordinate.
type Point [3]float64

// FromMap converts a generated map to points, multiplying every coordinate by
// scale. A zero scale is treated as 1.
func FromMap(m mapper.Map, scale float64) []Point {
	out := make([]Point, len(m))
	for i, c := range m {
		out[i] = Point{float64(c[0]), float64(c[1]), float64(c[2])}
	}
	return Scale(out, scale)
}

// Scale multiplies every coordinate of ps by s in place and returns ps. A zero
// s is treated as 1.
func Scale(ps []Point, s float64) []Point {
	if s == 0 || s == 1 {
		return ps
	}
	for i := range ps {
		ps[i] = Point{s * ps[i][0], s * ps[i][1], s * ps[i][2]}
	}
	return ps
}

// Center shifts points so the middle of their bounding box is the origin.
func Center(ps []Point) []Point {
	out := make([]Point, len(ps))
	if len(ps) == 0 {
		return out
	}
	lo, hi := ps[0], ps[0]
	for _, p := range ps[1:] {
		for a := 0; a < 3; a++ {
			if p[a] < lo[a] {
				lo[a] = p[a]
			}
			if p[a] > hi[a] {
				hi[a] = p[a]
			}
		}
	}
	var c Point
	for a := 0; a < 3; a++ {
		c[a] = (lo[a] + hi[a]) / 2
	}
	for i, p := range ps {
		out[i] = Point{p[0] - c[0], p[1] - c[1], p[2] - c[2]}
	}
	return out
}

func entries(ps []Point, is3D bool) [][]float64 {
	out := make([][]float64, len(ps))
	for i, p := range ps {
		if is3D {
			out[i] = []float64{p[0], p[1], p[2]}
		} else {
			out[i] = []float64{p[0], p[1]}
		}
	}
	return out
}

// Encode writes ps as a JSON map. With is3D false the z component is dropped.
func Encode(w io.Writer, ps []Point, is3D bool) error {
	if err := json.NewEncoder(w).Encode(entries(ps, is3D)); err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	return nil
}

// Decode reads a JSON map. Entries may hold two or three numbers; a missing z
// reads as 0.
func Decode(r io.Reader) ([]Point, error) {
	var raw [][]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	out := make([]Point, len(raw))
	for i, e := range raw {
		switch len(e) {
		case 2:
			out[i] = Point{e[0], e[1], 0}
		case 3:
			out[i] = Point{e[0], e[1], e[2]}
		default:
			return nil, fmt.Errorf("%w: index %d has %d components", ErrBadEntry, i, len(e))
		}
	}
	return out, nil
}

// WriteFunction writes a mapper function returning ps, suitable for pasting
// into the controller's mapper editor.
func WriteFunction(w io.Writer, ps []Point, is3D bool) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("function (pixelCount) {\n  var map = [\n")
	for i, p := range ps {
		bw.WriteString("    [")
		bw.WriteString(num(p[0]))
		bw.WriteByte(',')
		bw.WriteString(num(p[1]))
		if is3D {
			bw.WriteByte(',')
			bw.WriteString(num(p[2]))
		}
		bw.WriteByte(']')
		if i < len(ps)-1 {
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}
	bw.WriteString("  ];\n  return map;\n}\n")
	return bw.Flush()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
