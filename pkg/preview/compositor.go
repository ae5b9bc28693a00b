// Package preview overlays the mask being drawn on the working image as an
// extra channel, so the display can show both without touching the input.
package preview

import (
	"fmt"

	"draw3droi/internal/models"
	"draw3droi/internal/parallel"
	"draw3droi/pkg/mask"
	"draw3droi/pkg/region"
	"draw3droi/pkg/volume"
)

// PaintValue returns the value selected voxels get in the preview channel.
// A positive configured value wins; otherwise integer inputs use their type
// maximum and float inputs their brightest sample.
func PaintValue(base *volume.Volume, configured float64) float64 {
	if configured > 0 {
		return base.Type.Clamp(configured)
	}
	if base.Type.IsInteger() {
		return base.Type.Max()
	}
	_, max := base.Range()
	if max <= 0 {
		return 1
	}
	return max
}

// Mask synthesizes the preview layer in the layout of base: same dimensions,
// with the channel axis (appended when base has none) reduced to size 1.
func Mask(s mask.Synthesizer, base *volume.Volume, ax mask.AxisIndex, xy, xz, zy region.Region, paint float64) (*volume.Volume, error) {
	m, err := s.Synthesize(ax.Extent(base), xy, xz, zy, mask.PaintCell(base.Type, paint))
	if err != nil {
		return nil, err
	}

	shape := base.Dims()
	axes := append([]models.Axis(nil), base.Axes...)
	if ax.Channel >= 0 {
		shape[ax.Channel] = 1
	} else {
		shape = append(shape, 1)
		axes = append(axes, models.NewAxis(models.Channel))
	}

	out, err := factory(s).Create(shape, base.Type)
	if err != nil {
		return nil, fmt.Errorf("preview mask: %w", err)
	}
	copy(out.Axes, axes)
	out.Name = "preview"

	parallel.For(out.Len(), s.Workers, func(start, end int) {
		coord := make([]int, len(shape))
		for i := start; i < end; i++ {
			out.Coord(i, coord)
			if value := m.At(coord[ax.X], coord[ax.Y], coord[ax.Z]); value != 0 {
				out.Set(value, coord...)
			}
		}
	})
	return out, nil
}

// Compose appends previewMask to base as the last channel. When base has no
// channel axis (chIndex < 0) a trailing size-1 channel axis is added first.
// base is not modified.
func Compose(f volume.Factory, base, previewMask *volume.Volume, chIndex int) (*volume.Volume, error) {
	if chIndex < 0 {
		base = volume.AddAxis(base, models.NewAxis(models.Channel))
		chIndex = base.NumDims() - 1
	}
	out, err := volume.Concat(f, chIndex, base, previewMask)
	if err != nil {
		return nil, fmt.Errorf("compose preview: %w", err)
	}
	return out, nil
}

// Compositor keeps the last composite and rebuilds it only when the regions
// changed while preview is active
type Compositor struct {
	Synthesizer mask.Synthesizer

	cached *volume.Volume
}

// Composite returns the base volume with the preview channel. rebuilt reports
// whether the composite was recomputed; a rebuild clears the store's dirty flag.
// When active is false nothing is computed and the cached composite (possibly
// nil) is returned.
func (c *Compositor) Composite(base *volume.Volume, ax mask.AxisIndex, store *region.Store, paint float64, active bool) (composite *volume.Volume, rebuilt bool, err error) {
	if !active || (c.cached != nil && !store.Dirty()) {
		return c.cached, false, nil
	}

	layer, err := Mask(c.Synthesizer, base, ax,
		store.Get(region.PlaneXY), store.Get(region.PlaneXZ), store.Get(region.PlaneZY), paint)
	if err != nil {
		return nil, false, err
	}
	composite, err = Compose(factory(c.Synthesizer), base, layer, ax.Channel)
	if err != nil {
		return nil, false, err
	}
	c.cached = composite
	store.ClearDirty()
	return composite, true, nil
}

// Invalidate drops the cached composite
func (c *Compositor) Invalidate() {
	c.cached = nil
}

func factory(s mask.Synthesizer) volume.Factory {
	if s.Factory != nil {
		return s.Factory
	}
	return volume.HeapFactory{}
}
