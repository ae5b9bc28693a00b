// Package volume provides the N-dimensional sample arrays the ROI tool works on.
//
// A Volume is a strided view over a flat []float64 buffer. Freshly created
// volumes store axis 0 fastest, so a three-axis (x, y, z) volume uses the
// familiar z*w*h + y*w + x layout. Views created by Permute or AddAxis share
// the buffer of their source and never modify it.
package volume

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"draw3droi/internal/models"
)

var (
	// ErrInvalidAxis is returned when an axis index is out of range or a
	// permutation names the same axis twice.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrAllocation is returned when a volume of the requested shape cannot be created.
	ErrAllocation = errors.New("cannot allocate volume")

	// ErrShapeMismatch is returned when volumes do not fit together.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Volume is an N-dimensional array of scalar samples with axis metadata
type Volume struct {
	data    []float64
	shape   []int
	strides []int
	offset  int

	// Type is the native sample type; it bounds the values Set stores
	Type models.SampleType

	// Axes describes each dimension, len(Axes) == NumDims()
	Axes []models.Axis

	// Name is the human readable dataset name
	Name string
}

// FromData wraps an existing buffer laid out with axis 0 fastest.
// The buffer is not copied.
func FromData(data []float64, shape []int, t models.SampleType) (*Volume, error) {
	n, err := voxelCount(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d samples for shape %v", ErrShapeMismatch, len(data), shape)
	}
	return wrap(data, shape, t), nil
}

func wrap(data []float64, shape []int, t models.SampleType) *Volume {
	v := &Volume{
		data:    data,
		shape:   append([]int(nil), shape...),
		strides: make([]int, len(shape)),
		Type:    t,
		Axes:    make([]models.Axis, len(shape)),
	}
	stride := 1
	for d, size := range shape {
		v.strides[d] = stride
		stride *= size
	}
	return v
}

// NumDims returns the number of dimensions
func (v *Volume) NumDims() int {
	return len(v.shape)
}

// Dim returns the size of dimension d
func (v *Volume) Dim(d int) int {
	return v.shape[d]
}

// Dims returns a copy of the shape
func (v *Volume) Dims() []int {
	return append([]int(nil), v.shape...)
}

// Len returns the number of samples in the view
func (v *Volume) Len() int {
	n := 1
	for _, s := range v.shape {
		n *= s
	}
	return n
}

// AxisIndex returns the dimension tagged with t, or -1
func (v *Volume) AxisIndex(t models.AxisType) int {
	for d, a := range v.Axes {
		if a.Type == t {
			return d
		}
	}
	return -1
}

// SetAxes tags dimensions in order, e.g. SetAxes(models.X, models.Y, models.Z)
func (v *Volume) SetAxes(types ...models.AxisType) {
	for d := 0; d < len(types) && d < len(v.Axes); d++ {
		v.Axes[d] = models.NewAxis(types[d])
	}
}

func (v *Volume) index(coord []int) int {
	idx := v.offset
	for d, c := range coord {
		idx += c * v.strides[d]
	}
	return idx
}

// At returns the sample at coord. It panics when coord is out of range,
// like a slice index would.
func (v *Volume) At(coord ...int) float64 {
	v.checkCoord(coord)
	return v.data[v.index(coord)]
}

// Set stores value at coord after clamping it to the sample type
func (v *Volume) Set(value float64, coord ...int) {
	v.checkCoord(coord)
	v.data[v.index(coord)] = v.Type.Clamp(value)
}

func (v *Volume) checkCoord(coord []int) {
	if len(coord) != len(v.shape) {
		panic(fmt.Sprintf("volume: %d coordinates for %d dimensions", len(coord), len(v.shape)))
	}
	for d, c := range coord {
		if c < 0 || c >= v.shape[d] {
			panic(fmt.Sprintf("volume: coordinate %d out of range [0,%d) on axis %d", c, v.shape[d], d))
		}
	}
}

// Coord decodes a linear position (axis 0 fastest) of the view into coord
func (v *Volume) Coord(linear int, coord []int) {
	for d, size := range v.shape {
		coord[d] = linear % size
		linear /= size
	}
}

// Lane copies the samples along axis at coord into dst and returns it.
// coord[axis] is ignored.
func (v *Volume) Lane(coord []int, axis int, dst []float64) []float64 {
	dst = dst[:0]
	saved := coord[axis]
	coord[axis] = 0
	idx := v.index(coord)
	coord[axis] = saved
	for k := 0; k < v.shape[axis]; k++ {
		dst = append(dst, v.data[idx])
		idx += v.strides[axis]
	}
	return dst
}

// Values returns the samples of the view in linear order (axis 0 fastest)
func (v *Volume) Values() []float64 {
	if v.contiguous() {
		return append([]float64(nil), v.data[v.offset:v.offset+v.Len()]...)
	}
	out := make([]float64, v.Len())
	coord := make([]int, len(v.shape))
	for i := range out {
		v.Coord(i, coord)
		out[i] = v.data[v.index(coord)]
	}
	return out
}

// Range returns the smallest and largest sample of the view
func (v *Volume) Range() (min, max float64) {
	if v.Len() == 0 {
		return 0, 0
	}
	values := v.Values()
	return floats.Min(values), floats.Max(values)
}

// Materialize copies the view into a new contiguous volume
func (v *Volume) Materialize(f Factory) (*Volume, error) {
	out, err := f.Create(v.shape, v.Type)
	if err != nil {
		return nil, err
	}
	copy(out.data, v.Values())
	out.Axes = append(out.Axes[:0], v.Axes...)
	out.Name = v.Name
	return out, nil
}

func (v *Volume) contiguous() bool {
	stride := 1
	for d, size := range v.shape {
		if size > 1 && v.strides[d] != stride {
			return false
		}
		stride *= size
	}
	return true
}

// View returns a new view sharing v's samples
func (v *Volume) View() *Volume {
	return v.view()
}

func (v *Volume) view() *Volume {
	return &Volume{
		data:    v.data,
		shape:   append([]int(nil), v.shape...),
		strides: append([]int(nil), v.strides...),
		offset:  v.offset,
		Type:    v.Type,
		Axes:    append([]models.Axis(nil), v.Axes...),
		Name:    v.Name,
	}
}

func (v *Volume) String() string {
	return fmt.Sprintf("%s %v %s", v.Name, v.shape, v.Type)
}
