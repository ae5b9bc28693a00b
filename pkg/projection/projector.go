package projection

import (
	"errors"
	"fmt"

	"draw3droi/internal/parallel"
	"draw3droi/pkg/volume"
)

// ErrNoReduction is returned when None is handed to the projector
var ErrNoReduction = errors.New("projection method none has no reduction")

// Projector reduces a volume along one axis
type Projector struct {
	// Workers is the number of goroutines; zero uses every CPU
	Workers int

	// Factory allocates the output; nil uses volume.HeapFactory{}
	Factory volume.Factory
}

// Project computes method over every lane along depthAxis. The output has
// the input's dimensions without depthAxis, in the same order. Max keeps the
// input sample type, the other methods produce Float32.
func (p Projector) Project(v *volume.Volume, depthAxis int, method Method) (*volume.Volume, error) {
	if method == nil || method == None {
		return nil, ErrNoReduction
	}
	n := v.NumDims()
	if depthAxis < 0 || depthAxis >= n || n < 2 {
		return nil, fmt.Errorf("%w: cannot project axis %d of %d", volume.ErrInvalidAxis, depthAxis, n)
	}
	if v.Dim(depthAxis) == 0 {
		return nil, fmt.Errorf("%w: depth axis %d is empty", volume.ErrShapeMismatch, depthAxis)
	}

	shape := make([]int, 0, n-1)
	for d, size := range v.Dims() {
		if d != depthAxis {
			shape = append(shape, size)
		}
	}

	factory := p.Factory
	if factory == nil {
		factory = volume.HeapFactory{}
	}
	out, err := factory.Create(shape, method.OutputType(v.Type))
	if err != nil {
		return nil, fmt.Errorf("%s projection: %w", method, err)
	}
	out.Name = v.Name
	out.Axes = out.Axes[:0]
	for d, a := range v.Axes {
		if d != depthAxis {
			out.Axes = append(out.Axes, a)
		}
	}

	parallel.For(out.Len(), p.Workers, func(start, end int) {
		outCoord := make([]int, n-1)
		inCoord := make([]int, n)
		lane := make([]float64, 0, v.Dim(depthAxis))

		for i := start; i < end; i++ {
			out.Coord(i, outCoord)
			copy(inCoord[:depthAxis], outCoord[:depthAxis])
			copy(inCoord[depthAxis+1:], outCoord[depthAxis:])

			lane = v.Lane(inCoord, depthAxis, lane)
			out.Set(method.Reduce(lane), outCoord...)
		}
	})

	return out, nil
}

// Apply projects v along depthAxis, or returns v itself when method is None
func Apply(p Projector, v *volume.Volume, depthAxis int, method Method) (*volume.Volume, error) {
	if method == nil || method == None {
		return v, nil
	}
	return p.Project(v, depthAxis, method)
}
