package mapper

import (
	"fmt"

	diag "github.com/coreman2200/ledmap/internal/diagnostics"
)

// Validate compares a generated map with the pixel count the runtime reports.
// The map is never changed; mismatches only come back as diagnostics.
func Validate(m Map, pixelCount int) []diag.Diagnostic {
	n := len(m)
	switch {
	case pixelCount <= 0:
		return []diag.Diagnostic{{
			Severity: diag.Info,
			Code:     "MAP.COUNT_UNSET",
			Summary:  "pixel count not set; map length not checked",
			Evidence: map[string]any{"map_len": n},
		}}
	case n < pixelCount:
		return []diag.Diagnostic{{
			Severity:       diag.Warn,
			Code:           "MAP.SHORT",
			Summary:        "map has fewer coordinates than pixels",
			Detail:         fmt.Sprintf("%d pixels will have no coordinate", pixelCount-n),
			LikelyCauses:   []string{"dimensions smaller than the fixture", "wrong mapper for the fixture"},
			SuggestedFixes: []string{"check dim x/y/z against the build", "set pixel_count to the map length"},
			Evidence:       map[string]any{"map_len": n, "pixel_count": pixelCount},
		}}
	case n > pixelCount:
		return []diag.Diagnostic{{
			Severity:       diag.Warn,
			Code:           "MAP.LONG",
			Summary:        "map has more coordinates than pixels",
			Detail:         fmt.Sprintf("%d coordinates will be unused", n-pixelCount),
			LikelyCauses:   []string{"dimensions larger than the fixture", "pixel count set on the controller is too low"},
			SuggestedFixes: []string{"check dim x/y/z against the build", "raise the controller pixel count"},
			Evidence:       map[string]any{"map_len": n, "pixel_count": pixelCount},
		}}
	}
	return nil
}

// Overlap is a coordinate emitted at more than one index.
type Overlap struct {
	Coord   Coord
	Indices []int
}

// Overlaps lists every repeated coordinate in order of first appearance.
func Overlaps(m Map) []Overlap {
	seen := make(map[Coord][]int, len(m))
	order := make([]Coord, 0)
	for i, c := range m {
		if _, ok := seen[c]; !ok {
			order = append(order, c)
		}
		seen[c] = append(seen[c], i)
	}
	var out []Overlap
	for _, c := range order {
		if idx := seen[c]; len(idx) > 1 {
			out = append(out, Overlap{Coord: c, Indices: idx})
		}
	}
	return out
}

// Bounds returns the per-axis minimum and maximum of m. ok is false for an empty map.
func Bounds(m Map) (lo, hi Coord, ok bool) {
	if len(m) == 0 {
		return lo, hi, false
	}
	lo, hi = m[0], m[0]
	for _, c := range m[1:] {
		for a := 0; a < 3; a++ {
			if c[a] < lo[a] {
				lo[a] = c[a]
			}
			if c[a] > hi[a] {
				hi[a] = c[a]
			}
		}
	}
	return lo, hi, true
}
