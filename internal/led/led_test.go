package led_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	. "github.com/coreman2200/ledmap/internal/led"
	"github.com/coreman2200/ledmap/internal/mapper"
)

func TestBuildLUTVolumetric(t *testing.T) {
	m := mapper.NewVolumetric(mapper.Dim{X: 3, Y: 3, Z: 2}).Map(0)
	lut := BuildLUT(m)
	require.Len(t, lut, len(m))
	assert.Equal(t, Vec3{0, 0, 0}, lut[0])
	assert.Equal(t, Vec3{0.5, 0, 0}, lut[1])
	assert.Equal(t, Vec3{1, 1, 1}, lut[len(lut)-1])
}

func TestBuildLUTWalledSpansOutsideBox(t *testing.T) {
	m := mapper.NewWalled(mapper.Dim{X: 10, Y: 10, Z: 10}).Map(0)
	lut := BuildLUT(m)
	// top face sits at y=10 which is the maximum, back face at z=-1 the minimum.
	assert.Equal(t, 1.0, lut[0].Y)
	start, _ := mapper.FaceRange(mapper.Dim{X: 10, Y: 10, Z: 10}, mapper.Back)
	assert.Equal(t, 0.0, lut[start].Z)
	for _, v := range lut {
		assert.True(t, v.X >= 0 && v.X <= 1 && v.Y >= 0 && v.Y <= 1 && v.Z >= 0 && v.Z <= 1)
	}
}

func TestBuildLUTFlatAxis(t *testing.T) {
	lut := BuildLUT(mapper.Map{{0, 5, 0}, {4, 5, 0}})
	assert.Equal(t, []Vec3{{0, 0, 0}, {1, 0, 0}}, lut)
	assert.Empty(t, BuildLUT(nil))
}

func TestSim(t *testing.T) {
	s := NewSim(2)
	require.NoError(t, s.Write([]byte{0, 0, 0, 9, 8, 7}))
	assert.Equal(t, []byte{0, 0, 0, 9, 8, 7}, s.Last())
	assert.Equal(t, 1, s.Frames())
	assert.Error(t, s.Write([]byte{1, 2, 3}))
	assert.NoError(t, s.Close())
}

func TestNRZ(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewNRZ(spitest.NewRecordRaw(&buf), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", d.String())

	require.NoError(t, d.Write([]byte{0xFF, 0, 0, 0, 0xFF, 0}))
	assert.NotZero(t, buf.Len(), "encoded stream written to the port")
	assert.Error(t, d.Write([]byte{1, 2, 3}))

	require.NoError(t, d.Close())
	assert.Error(t, d.Write([]byte{0, 0, 0, 0, 0, 0}))
	assert.Equal(t, "nrz{closed}", d.String())
}

func TestNRZRejectsEmpty(t *testing.T) {
	_, err := NewNRZ(spitest.NewRecordRaw(&bytes.Buffer{}), 0, 0)
	assert.Error(t, err)
}
