package mask

import (
	"errors"
	"fmt"

	"draw3droi/internal/models"
	"draw3droi/pkg/volume"
)

// ErrMissingAxis is returned when a volume has no distinct X, Y and Z axes
var ErrMissingAxis = errors.New("volume needs distinct X, Y and Z axes")

// AxisIndex records which dimension of the input holds each axis.
// Channel is -1 when the input has no channel axis.
type AxisIndex struct {
	X, Y, Z, Channel int
}

// ResolveAxes finds the X, Y, Z and channel dimensions of v
func ResolveAxes(v *volume.Volume) (AxisIndex, error) {
	ax := AxisIndex{
		X:       v.AxisIndex(models.X),
		Y:       v.AxisIndex(models.Y),
		Z:       v.AxisIndex(models.Z),
		Channel: v.AxisIndex(models.Channel),
	}
	if ax.X < 0 || ax.Y < 0 || ax.Z < 0 {
		return AxisIndex{}, fmt.Errorf("%w: %s has axes %s", ErrMissingAxis, v.Name, axisNames(v))
	}
	seen := make(map[models.AxisType]bool)
	for _, a := range v.Axes {
		if a.Type != models.Unknown && seen[a.Type] {
			return AxisIndex{}, fmt.Errorf("%w: %s has two %s axes", ErrMissingAxis, v.Name, a.Type)
		}
		seen[a.Type] = true
	}
	return ax, nil
}

// Extent returns the x, y, z sizes of v
func (ax AxisIndex) Extent(v *volume.Volume) Extent {
	return Extent{X: v.Dim(ax.X), Y: v.Dim(ax.Y), Z: v.Dim(ax.Z)}
}

func axisNames(v *volume.Volume) []string {
	names := make([]string, len(v.Axes))
	for i, a := range v.Axes {
		names[i] = a.Type.String()
	}
	return names
}
