package volume

import (
	"fmt"
	"math"

	"draw3droi/internal/models"
)

// Factory allocates new volumes (projections, masks, composites)
type Factory interface {
	Create(shape []int, t models.SampleType) (*Volume, error)
}

// DefaultMaxVoxels caps a single allocation at 2^31 samples (16 GiB of float64)
const DefaultMaxVoxels = 1 << 31

// HeapFactory allocates volumes on the Go heap.
// MaxVoxels limits the sample count of one volume; zero means DefaultMaxVoxels.
type HeapFactory struct {
	MaxVoxels int
}

// Create allocates a zeroed volume with axis 0 fastest
func (f HeapFactory) Create(shape []int, t models.SampleType) (*Volume, error) {
	n, err := voxelCount(shape)
	if err != nil {
		return nil, err
	}
	limit := f.MaxVoxels
	if limit <= 0 {
		limit = DefaultMaxVoxels
	}
	if n > limit {
		return nil, fmt.Errorf("%w: %v needs %d samples, limit is %d", ErrAllocation, shape, n, limit)
	}
	return wrap(make([]float64, n), shape, t), nil
}

// New allocates a volume with the default heap factory
func New(shape []int, t models.SampleType) (*Volume, error) {
	return HeapFactory{}.Create(shape, t)
}

func voxelCount(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("%w: empty shape", ErrAllocation)
	}
	n := 1
	for _, s := range shape {
		if s < 0 {
			return 0, fmt.Errorf("%w: negative size in %v", ErrAllocation, shape)
		}
		if s > 0 && n > math.MaxInt/s {
			return 0, fmt.Errorf("%w: %v overflows", ErrAllocation, shape)
		}
		n *= s
	}
	return n, nil
}
