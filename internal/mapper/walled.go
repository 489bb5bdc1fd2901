package mapper

const WalledName = "walled"

type Face int

const (
	Top Face = iota
	Front
	Right
	Back
	Left
	Bottom
)

// Faces lists the faces in emission order.
var Faces = []Face{Top, Front, Right, Back, Left, Bottom}

func (f Face) String() string {
	switch f {
	case Top:
		return "top"
	case Front:
		return "front"
	case Right:
		return "right"
	case Back:
		return "back"
	case Left:
		return "left"
	case Bottom:
		return "bottom"
	}
	return "unknown"
}

// extent returns the row and column loop bounds of a face.
func (f Face) extent(d Dim) (rows, cols int) {
	switch f {
	case Top, Bottom:
		return d.X, d.Z
	case Front, Back:
		return d.Y, d.X
	case Right, Left:
		return d.Z, d.Y
	}
	return 0, 0
}

// project places cell (row, col) of a face in 3D. Front and right sit on the far
// boundary; back and left sit one unit outside the near one.
func (f Face) project(d Dim, row, col int) Coord {
	switch f {
	case Top:
		return Coord{row, d.Y, col}
	case Front:
		return Coord{col, row, d.Z}
	case Right:
		return Coord{d.X, col, row}
	case Back:
		return Coord{col, row, -1}
	case Left:
		return Coord{-1, col, row}
	default:
		return Coord{row, -1, col}
	}
}

// Size is the number of LEDs on the face.
func (f Face) Size(d Dim) int {
	r, c := f.extent(d)
	return mulSat(r, c)
}

// Walled maps the six boundary faces of a box, leaving the interior unmapped.
type Walled struct {
	Dim Dim
}

func NewWalled(dim Dim) *Walled { return &Walled{Dim: dim} }

// Map emits top, front, right, back, left, bottom in that order. Cells shared by
// adjacent faces are not deduplicated. pixelCount is ignored.
func (w *Walled) Map(pixelCount int) Map {
	out := make(Map, 0, WalledCount(w.Dim))
	for _, f := range Faces {
		rows, cols := f.extent(w.Dim)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				out = append(out, f.project(w.Dim, row, col))
			}
		}
	}
	return out
}

// WalledCount is the length of a walled map for d.
func WalledCount(d Dim) int {
	n := 0
	for _, f := range Faces {
		n = addSat(n, f.Size(d))
	}
	return n
}

func (w *Walled) Count() int { return WalledCount(w.Dim) }

// FaceRange returns the [start, end) index span of face f in a walled map.
func FaceRange(d Dim, f Face) (start, end int) {
	for _, g := range Faces {
		if g == f {
			return start, start + g.Size(d)
		}
		start += g.Size(d)
	}
	return start, start
}
