// Package session drives one ROI drawing session over a volume.
//
// A Session owns the region store and the current view selection. A single
// controller calls its commands one at a time in response to UI events
// (switch perspective, pick projection, register a region, toggle preview,
// export); a Session is not safe for concurrent use.
package session

import (
	"fmt"
	"log/slog"
	"strings"

	"draw3droi/internal/models"
	"draw3droi/pkg/mask"
	"draw3droi/pkg/preview"
	"draw3droi/pkg/projection"
	"draw3droi/pkg/region"
	"draw3droi/pkg/volume"
)

// WorkingName is the title of the working view
const WorkingName = "Working image-draw ROI"

// Options configure a session
type Options struct {
	// Display shows the working view; required
	Display Display

	// Status receives progress messages; nil logs them through Logger()
	Status Status

	// Workers bounds projection and synthesis goroutines; zero uses every CPU
	Workers int

	// Factory allocates projections, masks and composites
	Factory volume.Factory

	// PaintValue is the preview value of selected voxels; zero picks one
	// from the input's sample type
	PaintValue float64

	// Initial is the first view selection; the zero value is the front view
	Initial State
}

// Session is the controller of one drawing session
type Session struct {
	input *volume.Volume
	axes  mask.AxisIndex
	store *region.Store
	state State

	display    Display
	status     Status
	projector  projection.Projector
	synth      mask.Synthesizer
	compositor preview.Compositor
	paint      float64
	ranges     []Range

	shown bool
}

// New resolves the X, Y, Z (and channel) axes of input, creates full-extent
// regions and shows the initial view. It fails with mask.ErrMissingAxis when
// the input lacks a spatial axis.
func New(input *volume.Volume, opts Options) (*Session, error) {
	if opts.Display == nil {
		return nil, fmt.Errorf("session needs a display")
	}
	axes, err := mask.ResolveAxes(input)
	if err != nil {
		return nil, err
	}
	if opts.Status == nil {
		opts.Status = LogStatus{}
	}
	if opts.Factory == nil {
		opts.Factory = volume.HeapFactory{}
	}

	state := opts.Initial
	if state.Projection == nil {
		state.Projection = projection.None
	}

	extent := axes.Extent(input)
	synth := mask.Synthesizer{Workers: opts.Workers, Factory: opts.Factory}
	s := &Session{
		input:      input,
		axes:       axes,
		store:      region.NewStore(extent.X, extent.Y, extent.Z),
		state:      state,
		display:    opts.Display,
		status:     opts.Status,
		projector:  projection.Projector{Workers: opts.Workers, Factory: opts.Factory},
		synth:      synth,
		compositor: preview.Compositor{Synthesizer: synth},
		paint:      preview.PaintValue(input, opts.PaintValue),
	}
	if s.ranges, err = channelRanges(input, axes.Channel); err != nil {
		return nil, err
	}

	Logger().Debug("session started",
		slog.String("input", input.Name),
		slog.Any("dims", input.Dims()),
		slog.Int("x", axes.X), slog.Int("y", axes.Y), slog.Int("z", axes.Z), slog.Int("channel", axes.Channel))

	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// State returns the current view selection
func (s *Session) State() State {
	return s.state
}

// Axes returns the resolved axis indices of the input
func (s *Session) Axes() mask.AxisIndex {
	return s.axes
}

// Regions returns the region store
func (s *Session) Regions() *region.Store {
	return s.store
}

// ChangePerspective switches the working view to p
func (s *Session) ChangePerspective(p Perspective) error {
	if p < Front || p > Left {
		return fmt.Errorf("unknown perspective %d", int(p))
	}
	s.state = s.state.WithPerspective(p)
	return s.Refresh()
}

// ChangeProjection switches the reduction applied along the view's depth
func (s *Session) ChangeProjection(m projection.Method) error {
	s.state = s.state.WithProjection(m)
	return s.Refresh()
}

// SetRegion registers r for the perspective currently shown
func (s *Session) SetRegion(r region.Region) error {
	return s.SetRegionFor(s.state.Perspective, r)
}

// SetRegionFor registers r for perspective p
func (s *Session) SetRegionFor(p Perspective, r region.Region) error {
	if err := s.store.Set(p.Plane(), r); err != nil {
		return err
	}
	s.status.ShowStatus("ROI registered")
	return s.refreshPreview()
}

// ResetRegion restores the full-extent region of perspective p
func (s *Session) ResetRegion(p Perspective) error {
	if err := s.store.Reset(p.Plane()); err != nil {
		return err
	}
	s.status.ShowStatus("ROI reset")
	return s.refreshPreview()
}

// TogglePreview switches the preview overlay on or off
func (s *Session) TogglePreview() error {
	s.state = s.state.WithPreview(!s.state.Preview)
	return s.Refresh()
}

// SynthesizeExport builds the final 3D mask. Planes never set keep their
// full-extent default; a status warning names them.
func (s *Session) SynthesizeExport() (*volume.Volume, error) {
	s.status.ShowStatus("Generating mask.")
	if unset := s.store.Unset(); len(unset) > 0 {
		names := make([]string, len(unset))
		for i, p := range unset {
			names[i] = p.String()
		}
		s.status.ShowStatus(fmt.Sprintf("ROI not set for: %s; using full extent.", strings.Join(names, ", ")))
	}

	out, err := s.synth.Export(s.input, s.axes,
		s.store.Get(region.PlaneXY), s.store.Get(region.PlaneXZ), s.store.Get(region.PlaneZY))
	if err != nil {
		return nil, fmt.Errorf("mask synthesis failed: %w", err)
	}
	s.status.ShowStatus("Mask Generated.")
	return out, nil
}

// Refresh rebuilds the working view and hands it to the display
func (s *Session) Refresh() error {
	view, spec, err := s.View()
	if err != nil {
		return err
	}
	if s.shown {
		if err := s.display.Close(); err != nil {
			Logger().Warn("closing display", slog.Any("error", err))
		}
		s.shown = false
	}
	if err := s.display.Show(view, spec); err != nil {
		return fmt.Errorf("show working view: %w", err)
	}
	s.shown = true
	Logger().Debug("view refreshed", slog.String("state", s.state.String()), slog.Any("dims", view.Dims()))
	return nil
}

// View computes the working view for the current state without showing it
func (s *Session) View() (*volume.Volume, DisplaySpec, error) {
	src := s.input
	if s.state.Preview {
		composite, rebuilt, err := s.compositor.Composite(s.input, s.axes, s.store, s.paint, true)
		if err != nil {
			return nil, DisplaySpec{}, fmt.Errorf("preview: %w", err)
		}
		if rebuilt {
			s.status.ShowStatus("Preview updated.")
		}
		src = composite
	}

	view, err := s.orient(src)
	if err != nil {
		return nil, DisplaySpec{}, err
	}

	if s.state.Projection != projection.None {
		s.status.ShowStatus("Projecting.")
		view, err = projection.Apply(s.projector, view, s.axes.Z, s.state.Projection)
		if err != nil {
			return nil, DisplaySpec{}, fmt.Errorf("projection failed: %w", err)
		}
		s.status.ShowStatus("Projection done.")
	}
	view.Name = WorkingName

	return view, s.spec(view), nil
}

// orient permutes src so the current perspective's axes sit at the X and Y
// positions and its depth at the Z position
func (s *Session) orient(src *volume.Volume) (*volume.Volume, error) {
	switch s.state.Perspective {
	case Top:
		return volume.Permute(src, s.axes.Y, s.axes.Z)
	case Left:
		return volume.Permute(src, s.axes.X, s.axes.Z)
	default:
		return src.View(), nil
	}
}

func (s *Session) spec(view *volume.Volume) DisplaySpec {
	spec := DisplaySpec{Name: WorkingName, ChannelAxis: view.AxisIndex(models.Channel), ChannelCount: 1}
	if spec.ChannelAxis >= 0 {
		spec.ChannelCount = view.Dim(spec.ChannelAxis)
	}
	// ranges only carry over to unprojected views
	if s.state.Projection == projection.None {
		spec.Ranges = append([]Range(nil), s.ranges...)
		if s.state.Preview {
			spec.Ranges = append(spec.Ranges, Range{Min: 0, Max: s.paint})
		}
	}
	return spec
}

func (s *Session) refreshPreview() error {
	if !s.state.Preview {
		return nil
	}
	return s.Refresh()
}

// Close tears down the display
func (s *Session) Close() error {
	if !s.shown {
		return nil
	}
	s.shown = false
	return s.display.Close()
}

func channelRanges(v *volume.Volume, ch int) ([]Range, error) {
	if ch < 0 {
		min, max := v.Range()
		return []Range{{Min: min, Max: max}}, nil
	}
	ranges := make([]Range, v.Dim(ch))
	for c := range ranges {
		plane, err := volume.Slice(v, ch, c)
		if err != nil {
			return nil, err
		}
		ranges[c].Min, ranges[c].Max = plane.Range()
	}
	return ranges, nil
}
