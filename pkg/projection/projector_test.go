package projection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draw3droi/internal/models"
	"draw3droi/pkg/volume"
)

func stack(t *testing.T, typ models.SampleType, w, h int, planes ...[]float64) *volume.Volume {
	t.Helper()
	v, err := volume.New([]int{w, h, len(planes)}, typ)
	require.NoError(t, err)
	v.SetAxes(models.X, models.Y, models.Z)
	v.Name = "stack"
	for z, plane := range planes {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v.Set(plane[y*w+x], x, y, z)
			}
		}
	}
	return v
}

func TestProjectMethods(t *testing.T) {
	v := stack(t, models.Uint8, 2, 1,
		[]float64{1, 10},
		[]float64{4, 10},
		[]float64{7, 40},
		[]float64{2, 20},
	)

	tests := []struct {
		method Method
		want   []float64
		typ    models.SampleType
	}{
		{Max, []float64{7, 40}, models.Uint8},
		{Mean, []float64{3.5, 20}, models.Float32},
		{Median, []float64{3, 15}, models.Float32},
		{Variance, []float64{7, 200}, models.Float32},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			out, err := Projector{Workers: 2}.Project(v, 2, tt.method)
			require.NoError(t, err)
			assert.Equal(t, []int{2, 1}, out.Dims())
			assert.Equal(t, tt.typ, out.Type)
			assert.InDeltaSlice(t, tt.want, out.Values(), 1e-5)
			assert.Equal(t, models.X, out.Axes[0].Type)
			assert.Equal(t, models.Y, out.Axes[1].Type)
		})
	}
}

func TestProjectMaxOverSingleSlice(t *testing.T) {
	v := stack(t, models.Uint16, 3, 2, []float64{5, 0, 65535, 12, 9, 3})

	out, err := Projector{}.Project(v, 2, Max)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, out.Dims())
	assert.Equal(t, models.Uint16, out.Type)
	assert.Equal(t, v.Values(), out.Values())
}

func TestProjectVarianceSingleSample(t *testing.T) {
	v := stack(t, models.Float64, 1, 1, []float64{42})
	out, err := Projector{}.Project(v, 2, Variance)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out.Values())
}

func TestProjectKeepsAxisOrder(t *testing.T) {
	// x,z,y after a top-view permutation; depth sits on axis 2
	v := stack(t, models.Float64, 2, 3, []float64{1, 2, 3, 4, 5, 6}, []float64{6, 5, 4, 3, 2, 1})
	p, err := volume.Permute(v, 1, 2)
	require.NoError(t, err)

	out, err := Projector{Workers: 3}.Project(p, 2, Max)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, out.Dims())
	assert.Equal(t, models.X, out.Axes[0].Type)
	assert.Equal(t, models.Z, out.Axes[1].Type)
	// max over y for (x=0,z=0) is 5, (x=1,z=1) is 5
	assert.Equal(t, 5.0, out.At(0, 0))
	assert.Equal(t, 6.0, out.At(1, 0))
	assert.Equal(t, 6.0, out.At(0, 1))
	assert.Equal(t, 5.0, out.At(1, 1))
}

func TestProjectErrors(t *testing.T) {
	v := stack(t, models.Float64, 2, 2, []float64{1, 2, 3, 4})

	_, err := Projector{}.Project(v, 2, None)
	assert.True(t, errors.Is(err, ErrNoReduction))

	_, err = Projector{}.Project(v, 3, Max)
	assert.True(t, errors.Is(err, volume.ErrInvalidAxis))

	_, err = Projector{Factory: volume.HeapFactory{MaxVoxels: 2}}.Project(v, 2, Mean)
	assert.True(t, errors.Is(err, volume.ErrAllocation))
}

func TestApplyBypassesNone(t *testing.T) {
	v := stack(t, models.Float64, 2, 2, []float64{1, 2, 3, 4})
	out, err := Apply(Projector{}, v, 2, None)
	require.NoError(t, err)
	assert.Same(t, v, out)
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMethod(" MAX ")
	require.NoError(t, err)
	assert.Equal(t, Max, got)

	_, err = ParseMethod("sum")
	assert.Error(t, err)
}
