// Package mask turns three 2D regions drawn on orthogonal planes into a 3D mask.
//
// A voxel (x, y, z) is selected when its three projections fall inside the
// regions of their planes:
//
//	xy.Contains(x, y) && xz.Contains(x, z) && zy.Contains(z, y)
//
// The zy region receives (z, y): the left view shows z horizontally and y
// vertically, so that is the order in which its region was drawn.
package mask

import (
	"errors"
	"fmt"

	"draw3droi/internal/models"
	"draw3droi/internal/parallel"
	"draw3droi/pkg/region"
	"draw3droi/pkg/volume"
)

// ErrEmptyExtent is returned when an extent has a zero or negative size
var ErrEmptyExtent = errors.New("empty mask extent")

// Extent is the x, y, z size of a mask
type Extent struct {
	X, Y, Z int
}

// Voxels returns the number of cells in the extent
func (e Extent) Voxels() int {
	return e.X * e.Y * e.Z
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%dx%d", e.X, e.Y, e.Z)
}

// Cell is the sample type of a mask and the value written to selected voxels.
// Unselected voxels hold zero.
type Cell struct {
	Type  models.SampleType
	Value float64
}

// ExportCell marks selected voxels with 1 in a bit volume
var ExportCell = Cell{Type: models.Bit, Value: 1}

// PaintCell marks selected voxels with value in a volume of type t
func PaintCell(t models.SampleType, value float64) Cell {
	return Cell{Type: t, Value: value}
}

// Selected is the membership test of voxel (x, y, z)
func Selected(x, y, z int, xy, xz, zy region.Region) bool {
	return xy.Contains(x, y) && xz.Contains(x, z) && zy.Contains(z, y)
}

// Synthesizer builds masks from three regions
type Synthesizer struct {
	// Workers is the number of goroutines; zero uses every CPU
	Workers int

	// Factory allocates the mask; nil uses volume.HeapFactory{}
	Factory volume.Factory
}

// Synthesize evaluates every voxel of the extent and returns an x, y, z volume
// holding cell.Value where the voxel is selected and zero elsewhere. The
// regions are only read. Either the complete mask or an error is returned.
func (s Synthesizer) Synthesize(e Extent, xy, xz, zy region.Region, cell Cell) (*volume.Volume, error) {
	if e.X <= 0 || e.Y <= 0 || e.Z <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyExtent, e)
	}
	if xy == nil || xz == nil || zy == nil {
		return nil, fmt.Errorf("synthesize %s: %w", e, region.ErrNilRegion)
	}

	factory := s.Factory
	if factory == nil {
		factory = volume.HeapFactory{}
	}
	out, err := factory.Create([]int{e.X, e.Y, e.Z}, cell.Type)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", e, err)
	}
	out.SetAxes(models.X, models.Y, models.Z)

	// each plane is sampled once instead of once per voxel
	xyMap := region.Compile(xy, e.X, e.Y)
	xzMap := region.Compile(xz, e.X, e.Z)
	zyMap := region.Compile(zy, e.Z, e.Y)

	// one row is a run of x at fixed (y, z)
	parallel.For(e.Y*e.Z, s.Workers, func(start, end int) {
		for row := start; row < end; row++ {
			y, z := row%e.Y, row/e.Y
			if !zyMap.Contains(z, y) {
				continue
			}
			for x := 0; x < e.X; x++ {
				if Selected(x, y, z, xyMap, xzMap, zyMap) {
					out.Set(cell.Value, x, y, z)
				}
			}
		}
	})

	return out, nil
}

// Export builds the final bit mask of input. The mask axes carry the
// metadata of the input's X, Y and Z axes and the name "3D mask-<input>".
func (s Synthesizer) Export(input *volume.Volume, ax AxisIndex, xy, xz, zy region.Region) (*volume.Volume, error) {
	out, err := s.Synthesize(ax.Extent(input), xy, xz, zy, ExportCell)
	if err != nil {
		return nil, err
	}
	out.Axes[0] = input.Axes[ax.X]
	out.Axes[1] = input.Axes[ax.Y]
	out.Axes[2] = input.Axes[ax.Z]
	out.Name = "3D mask-" + input.Name
	return out, nil
}
