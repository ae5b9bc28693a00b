package volume

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draw3droi/internal/models"
)

// ramp builds an x,y,z volume whose sample at (x,y,z) is x + 10y + 100z
func ramp(t *testing.T, w, h, d int) *Volume {
	t.Helper()
	v, err := New([]int{w, h, d}, models.Float64)
	require.NoError(t, err)
	v.SetAxes(models.X, models.Y, models.Z)
	v.Name = "ramp"
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v.Set(float64(x+10*y+100*z), x, y, z)
			}
		}
	}
	return v
}

func TestLinearLayout(t *testing.T) {
	v := ramp(t, 3, 2, 2)
	values := v.Values()
	// z*w*h + y*w + x
	assert.Equal(t, 112.0, values[1*3*2+1*3+2])
	assert.Equal(t, 3*2*2, v.Len())
}

func TestPermuteSwapsAxes(t *testing.T) {
	v := ramp(t, 4, 3, 2)

	p, err := Permute(v, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 3}, p.Dims())
	assert.Equal(t, models.Z, p.Axes[1].Type)
	assert.Equal(t, models.Y, p.Axes[2].Type)

	for z := 0; z < 2; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				assert.Equal(t, v.At(x, y, z), p.At(x, z, y))
			}
		}
	}

	// source untouched
	assert.Equal(t, []int{4, 3, 2}, v.Dims())
	assert.Equal(t, models.Y, v.Axes[1].Type)
}

func TestPermuteRoundTrip(t *testing.T) {
	v := ramp(t, 4, 3, 2)
	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		once, err := Permute(v, pair[0], pair[1])
		require.NoError(t, err)
		twice, err := Permute(once, pair[0], pair[1])
		require.NoError(t, err)

		assert.Equal(t, v.Dims(), twice.Dims())
		assert.Equal(t, v.Axes, twice.Axes)
		assert.Equal(t, v.Values(), twice.Values())
	}
}

func TestPermuteInvalid(t *testing.T) {
	v := ramp(t, 2, 2, 2)

	_, err := Permute(v, 1, 1)
	assert.True(t, errors.Is(err, ErrInvalidAxis))

	_, err = Permute(v, 0, 3)
	assert.True(t, errors.Is(err, ErrInvalidAxis))

	_, err = Permute(v, -1, 0)
	assert.True(t, errors.Is(err, ErrInvalidAxis))
}

func TestPermuteSharesStorage(t *testing.T) {
	v := ramp(t, 2, 2, 2)
	p, err := Permute(v, 0, 2)
	require.NoError(t, err)

	p.Set(-1, 1, 0, 0)
	assert.Equal(t, -1.0, v.At(0, 0, 1))
}

func TestLane(t *testing.T) {
	v := ramp(t, 3, 3, 4)
	lane := v.Lane([]int{2, 1, 0}, 2, nil)
	assert.Equal(t, []float64{12, 112, 212, 312}, lane)

	p, err := Permute(v, 0, 2)
	require.NoError(t, err)
	lane = p.Lane([]int{0, 1, 2}, 0, lane)
	assert.Equal(t, []float64{12, 112, 212, 312}, lane)
}

func TestMaterialize(t *testing.T) {
	v := ramp(t, 3, 2, 2)
	p, err := Permute(v, 0, 1)
	require.NoError(t, err)

	m, err := p.Materialize(HeapFactory{})
	require.NoError(t, err)
	assert.Equal(t, p.Dims(), m.Dims())
	assert.Equal(t, p.Values(), m.Values())
	assert.Equal(t, p.Axes, m.Axes)
	assert.Equal(t, "ramp", m.Name)
}

func TestRange(t *testing.T) {
	v := ramp(t, 2, 2, 2)
	min, max := v.Range()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 111.0, max)
}

func TestHeapFactoryLimit(t *testing.T) {
	_, err := HeapFactory{MaxVoxels: 10}.Create([]int{4, 4}, models.Uint8)
	assert.True(t, errors.Is(err, ErrAllocation))

	_, err = HeapFactory{}.Create([]int{2, -1}, models.Uint8)
	assert.True(t, errors.Is(err, ErrAllocation))

	v, err := HeapFactory{MaxVoxels: 16}.Create([]int{4, 4}, models.Uint8)
	require.NoError(t, err)
	assert.Equal(t, 16, v.Len())
}

func TestSetClampsToType(t *testing.T) {
	v, err := New([]int{2}, models.Uint8)
	require.NoError(t, err)
	v.Set(400, 0)
	v.Set(-3, 1)
	assert.Equal(t, []float64{255, 0}, v.Values())
}

func TestFromDataShapeMismatch(t *testing.T) {
	_, err := FromData(make([]float64, 5), []int{2, 3}, models.Float64)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestAddAxisAndConcat(t *testing.T) {
	base := ramp(t, 2, 2, 1)
	withCh := AddAxis(base, models.NewAxis(models.Channel))
	assert.Equal(t, []int{2, 2, 1, 1}, withCh.Dims())
	assert.Equal(t, 3, withCh.AxisIndex(models.Channel))
	assert.Equal(t, -1, base.AxisIndex(models.Channel))

	layer, err := New([]int{2, 2, 1, 1}, models.Float64)
	require.NoError(t, err)
	layer.Set(7, 1, 1, 0, 0)

	c, err := Concat(HeapFactory{}, 3, withCh, layer)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1, 2}, c.Dims())
	assert.Equal(t, 11.0, c.At(1, 1, 0, 0))
	assert.Equal(t, 7.0, c.At(1, 1, 0, 1))
	assert.Equal(t, 0.0, c.At(0, 1, 0, 1))
	assert.Equal(t, models.Channel, c.Axes[3].Type)
}

func TestConcatMismatch(t *testing.T) {
	a := ramp(t, 2, 2, 1)
	b := ramp(t, 3, 2, 1)
	_, err := Concat(HeapFactory{}, 2, a, b)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = Concat(HeapFactory{}, 5, a, a)
	assert.True(t, errors.Is(err, ErrInvalidAxis))
}

func TestSlice(t *testing.T) {
	v := ramp(t, 3, 2, 4)

	s, err := Slice(v, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, s.Dims())
	assert.Equal(t, []models.Axis{models.NewAxis(models.X), models.NewAxis(models.Y)}, s.Axes)
	assert.Equal(t, 312.0, s.At(2, 1))

	s, err = Slice(v, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 11, 101, 111, 201, 211, 301, 311}, s.Values())

	_, err = Slice(v, 2, 4)
	assert.True(t, errors.Is(err, ErrInvalidAxis))
	_, err = Slice(v, 3, 0)
	assert.True(t, errors.Is(err, ErrInvalidAxis))
}
