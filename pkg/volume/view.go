package volume

import (
	"fmt"

	"draw3droi/internal/models"
)

// Permute returns a view of v with axes a and b swapped. Shape, strides and
// axis metadata move together, the samples are shared and v is left untouched.
// Permuting twice with the same pair gives back the original layout.
func Permute(v *Volume, a, b int) (*Volume, error) {
	n := v.NumDims()
	if a < 0 || a >= n || b < 0 || b >= n {
		return nil, fmt.Errorf("%w: permute(%d, %d) on %d dimensions", ErrInvalidAxis, a, b, n)
	}
	if a == b {
		return nil, fmt.Errorf("%w: permute(%d, %d) is not a swap", ErrInvalidAxis, a, b)
	}
	out := v.view()
	out.shape[a], out.shape[b] = out.shape[b], out.shape[a]
	out.strides[a], out.strides[b] = out.strides[b], out.strides[a]
	out.Axes[a], out.Axes[b] = out.Axes[b], out.Axes[a]
	return out, nil
}

// AddAxis returns a view of v with a trailing dimension of size 1
func AddAxis(v *Volume, axis models.Axis) *Volume {
	out := v.view()
	out.shape = append(out.shape, 1)
	out.strides = append(out.strides, 0)
	out.Axes = append(out.Axes, axis)
	return out
}

// Concat allocates a new volume holding vols one after another along axis.
// All other dimensions must agree. The result takes the sample type, axes and
// name of the first volume; samples of later volumes are clamped to that type.
func Concat(f Factory, axis int, vols ...*Volume) (*Volume, error) {
	if len(vols) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrShapeMismatch)
	}
	first := vols[0]
	if axis < 0 || axis >= first.NumDims() {
		return nil, fmt.Errorf("%w: concat axis %d on %d dimensions", ErrInvalidAxis, axis, first.NumDims())
	}

	shape := first.Dims()
	shape[axis] = 0
	for _, v := range vols {
		if v.NumDims() != first.NumDims() {
			return nil, fmt.Errorf("%w: %v and %v", ErrShapeMismatch, first.shape, v.shape)
		}
		for d := range v.shape {
			if d != axis && v.shape[d] != first.shape[d] {
				return nil, fmt.Errorf("%w: %v and %v differ on axis %d", ErrShapeMismatch, first.shape, v.shape, d)
			}
		}
		shape[axis] += v.shape[axis]
	}

	out, err := f.Create(shape, first.Type)
	if err != nil {
		return nil, err
	}
	copy(out.Axes, first.Axes)
	out.Name = first.Name

	coord := make([]int, len(shape))
	base := 0
	for _, v := range vols {
		n := v.Len()
		for i := 0; i < n; i++ {
			v.Coord(i, coord)
			value := v.data[v.index(coord)]
			coord[axis] += base
			out.data[out.index(coord)] = out.Type.Clamp(value)
		}
		base += v.shape[axis]
	}
	return out, nil
}

// Slice returns the view of v at position index along axis, with that axis removed
func Slice(v *Volume, axis, index int) (*Volume, error) {
	if axis < 0 || axis >= v.NumDims() {
		return nil, fmt.Errorf("%w: slice axis %d on %d dimensions", ErrInvalidAxis, axis, v.NumDims())
	}
	if index < 0 || index >= v.shape[axis] {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidAxis, index, v.shape[axis])
	}
	out := v.view()
	out.offset += index * v.strides[axis]
	out.shape = append(out.shape[:axis], out.shape[axis+1:]...)
	out.strides = append(out.strides[:axis], out.strides[axis+1:]...)
	out.Axes = append(out.Axes[:axis], out.Axes[axis+1:]...)
	return out, nil
}
