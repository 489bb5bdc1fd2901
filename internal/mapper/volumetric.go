package mapper

const VolumetricName = "volumetric"

// Volumetric maps every lattice point of a solid box.
type Volumetric struct {
	Dim Dim
}

func NewVolumetric(dim Dim) *Volumetric { return &Volumetric{Dim: dim} }

// Map emits (x, y, z) with x varying fastest, then y, then z, matching a fixture
// wired row by row and plane by plane. pixelCount is ignored.
func (v *Volumetric) Map(pixelCount int) Map {
	d := v.Dim
	out := make(Map, 0, v.Count())
	for z := 0; z < d.Z; z++ {
		for y := 0; y < d.Y; y++ {
			for x := 0; x < d.X; x++ {
				out = append(out, Coord{x, y, z})
			}
		}
	}
	return out
}

// Count is X*Y*Z, saturating at math.MaxInt.
func (v *Volumetric) Count() int {
	return mulSat(mulSat(v.Dim.X, v.Dim.Y), v.Dim.Z)
}
