package mapper_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/ledmap/internal/diagnostics"
	. "github.com/coreman2200/ledmap/internal/mapper"
)

var cube = Dim{X: 10, Y: 10, Z: 10}

func TestVolumetricCube(t *testing.T) {
	m := NewVolumetric(cube).Map(1000)
	require.Len(t, m, 1000)
	assert.Equal(t, Coord{0, 0, 0}, m[0])
	assert.Equal(t, Coord{9, 9, 9}, m[999])
	for i, c := range m {
		want := Coord{i % 10, (i / 10) % 10, i / 100}
		if c != want {
			t.Fatalf("index %d: got %v want %v", i, c, want)
		}
	}
}

func TestVolumetricNonCubic(t *testing.T) {
	d := Dim{X: 3, Y: 2, Z: 4}
	m := NewVolumetric(d).Map(0)
	require.Len(t, m, 24)
	assert.Equal(t, Coord{1, 0, 0}, m[1], "x varies fastest")
	assert.Equal(t, Coord{0, 1, 0}, m[3], "then y")
	assert.Equal(t, Coord{0, 0, 1}, m[6], "then z")
	assert.Equal(t, Coord{2, 1, 3}, m[23])
}

func TestVolumetricEmptyDim(t *testing.T) {
	assert.Empty(t, NewVolumetric(Dim{X: 0, Y: 4, Z: 4}).Map(16))
	assert.Empty(t, NewVolumetric(Dim{X: -2, Y: -2, Z: 1}).Map(4))
}

func TestWalledCube(t *testing.T) {
	m := NewWalled(cube).Map(600)
	require.Len(t, m, 600)
	assert.Equal(t, 600, WalledCount(cube))

	assert.Equal(t, Coord{0, 10, 0}, m[0], "top starts at row 0, col 0")
	assert.Equal(t, Coord{0, 10, 1}, m[1], "top col runs along z")
	assert.Equal(t, Coord{0, 0, 10}, m[100], "front starts at index 100")
	assert.Equal(t, Coord{10, 0, 0}, m[200], "right starts at index 200")
	assert.Equal(t, Coord{0, 0, -1}, m[300], "back starts at index 300")
	assert.Equal(t, Coord{-1, 0, 0}, m[400], "left starts at index 400")
	assert.Equal(t, Coord{0, -1, 0}, m[500], "bottom starts at index 500")

	for i := 300; i < 400; i++ {
		assert.Equal(t, -1, m[i][2], "back face z at %d", i)
	}
	for i := 400; i < 500; i++ {
		assert.Equal(t, -1, m[i][0], "left face x at %d", i)
	}
	for i := 500; i < 600; i++ {
		assert.Equal(t, -1, m[i][1], "bottom face y at %d", i)
	}
}

func TestWalledProjectionTable(t *testing.T) {
	d := Dim{X: 2, Y: 3, Z: 4}
	m := NewWalled(d).Map(0)
	require.Len(t, m, 2*(2*4+2*3+3*4))

	var tests = []struct {
		Face   Face
		Row    int
		Col    int
		Expect Coord
	}{
		{Top, 1, 3, Coord{1, 3, 3}},
		{Front, 2, 1, Coord{1, 2, 4}},
		{Right, 3, 2, Coord{2, 2, 3}},
		{Back, 2, 1, Coord{1, 2, -1}},
		{Left, 3, 2, Coord{-1, 2, 3}},
		{Bottom, 1, 3, Coord{1, -1, 3}},
	}
	cols := map[Face]int{Top: d.Z, Front: d.X, Right: d.Y, Back: d.X, Left: d.Y, Bottom: d.Z}
	for _, v := range tests {
		t.Run(v.Face.String(), func(t *testing.T) {
			start, _ := FaceRange(d, v.Face)
			assert.Equal(t, v.Expect, m[start+v.Row*cols[v.Face]+v.Col])
		})
	}
}

func TestFaceRange(t *testing.T) {
	d := Dim{X: 2, Y: 3, Z: 4}
	var tests = []struct {
		Face       Face
		Start, End int
	}{
		{Top, 0, 8},
		{Front, 8, 14},
		{Right, 14, 26},
		{Back, 26, 32},
		{Left, 32, 44},
		{Bottom, 44, 52},
	}
	for _, v := range tests {
		s, e := FaceRange(d, v.Face)
		assert.Equal(t, v.Start, s, v.Face.String())
		assert.Equal(t, v.End, e, v.Face.String())
		assert.Equal(t, v.End-v.Start, v.Face.Size(d))
	}
	s, e := FaceRange(d, Face(42))
	assert.Equal(t, 52, s)
	assert.Equal(t, 52, e)
}

func TestCountSaturates(t *testing.T) {
	huge := Dim{X: math.MaxInt, Y: math.MaxInt, Z: 3}
	assert.Equal(t, math.MaxInt, NewVolumetric(huge).Count())
	assert.Equal(t, math.MaxInt, NewWalled(huge).Count())
	assert.Equal(t, 0, NewVolumetric(Dim{X: -2, Y: -2, Z: 1}).Count())

	var c Counter = NewWalled(cube)
	assert.Equal(t, len(NewWalled(cube).Map(0)), c.Count())
	c = NewVolumetric(cube)
	assert.Equal(t, 1000, c.Count())
}

func TestIdempotentAndPixelCountIgnored(t *testing.T) {
	for _, name := range []string{VolumetricName, WalledName} {
		t.Run(name, func(t *testing.T) {
			mp, err := NewRegistry().New(name, cube)
			require.NoError(t, err)
			base := mp.Map(1)
			for _, n := range []int{1, 600, 100000, 0, -5} {
				if diff := cmp.Diff(base, mp.Map(n)); diff != "" {
					t.Fatalf("pixelCount=%d changed the map (-want +got):\n%s", n, diff)
				}
			}
		})
	}
}

func TestWalledOverlaps(t *testing.T) {
	// Each face pins one axis to a value no other face uses, so the built-in
	// walled map has no repeats.
	for _, d := range []Dim{cube, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 5, Z: 3}} {
		assert.Empty(t, Overlaps(NewWalled(d).Map(0)), "dim %+v", d)
	}
}

func TestOverlapsReportsRepeats(t *testing.T) {
	m := Map{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 0, 0}}
	got := Overlaps(m)
	want := []Overlap{
		{Coord: Coord{0, 0, 0}, Indices: []int{0, 2, 5}},
		{Coord: Coord{1, 0, 0}, Indices: []int{1, 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overlaps (-want +got):\n%s", diff)
	}
}

func TestBounds(t *testing.T) {
	lo, hi, ok := Bounds(NewWalled(cube).Map(0))
	require.True(t, ok)
	assert.Equal(t, Coord{-1, -1, -1}, lo)
	assert.Equal(t, Coord{10, 10, 10}, hi)

	_, _, ok = Bounds(nil)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	m := NewVolumetric(cube).Map(0)
	var tests = []struct {
		Pixels   int
		Code     string
		Severity diag.Severity
	}{
		{0, "MAP.COUNT_UNSET", diag.Info},
		{-1, "MAP.COUNT_UNSET", diag.Info},
		{1200, "MAP.SHORT", diag.Warn},
		{600, "MAP.LONG", diag.Warn},
		{1000, "", ""},
	}
	for _, v := range tests {
		t.Run("pixels "+strconv.Itoa(v.Pixels), func(t *testing.T) {
			ds := Validate(m, v.Pixels)
			if v.Code == "" {
				assert.Empty(t, ds)
				return
			}
			require.Len(t, ds, 1)
			assert.Equal(t, v.Code, ds[0].Code)
			assert.Equal(t, v.Severity, ds[0].Severity)
		})
	}
	assert.Len(t, m, 1000, "validation must not touch the map")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{VolumetricName, WalledName}, r.List())

	_, err := r.New("spiral", cube)
	assert.ErrorIs(t, err, ErrUnknownMapper)

	r.Register("line", func(d Dim) Mapper {
		return Func(func(int) Map {
			out := make(Map, d.X)
			for i := range out {
				out[i] = Coord{i, 0, 0}
			}
			return out
		})
	})
	mp, err := r.New("line", Dim{X: 4})
	require.NoError(t, err)
	assert.Equal(t, Map{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, mp.Map(4))
	assert.Contains(t, r.List(), "line")
}
