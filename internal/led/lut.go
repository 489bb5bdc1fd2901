package led

import "github.com/coreman2200/ledmap/internal/mapper"

type Vec3 struct{ X, Y, Z float64 }

// BuildLUT normalises a map into world positions in [0,1]^3, index for index.
// Each axis is scaled by its own extent; a flat axis maps to 0.
func BuildLUT(m mapper.Map) []Vec3 {
	out := make([]Vec3, len(m))
	lo, hi, ok := mapper.Bounds(m)
	if !ok {
		return out
	}
	norm := func(v, a int) float64 {
		span := hi[a] - lo[a]
		if span == 0 {
			return 0
		}
		return float64(v-lo[a]) / float64(span)
	}
	for i, c := range m {
		out[i] = Vec3{
			X: norm(c[0], 0),
			Y: norm(c[1], 1),
			Z: norm(c[2], 2),
		}
	}
	return out
}
