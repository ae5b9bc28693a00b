package session

import (
	"fmt"
	"strings"

	"draw3droi/pkg/projection"
	"draw3droi/pkg/region"
)

// Perspective is the plane the working view shows and the region being edited
type Perspective int

const (
	// Front shows x horizontally and y vertically
	Front Perspective = iota
	// Top shows x horizontally and z vertically
	Top
	// Left shows z horizontally and y vertically
	Left
)

// Perspectives lists the perspectives in menu order
var Perspectives = []Perspective{Front, Top, Left}

func (p Perspective) String() string {
	switch p {
	case Front:
		return "XY"
	case Top:
		return "XZ"
	case Left:
		return "YZ"
	default:
		return fmt.Sprintf("Perspective(%d)", int(p))
	}
}

// Plane returns the region plane drawn on this perspective
func (p Perspective) Plane() region.Plane {
	switch p {
	case Top:
		return region.PlaneXZ
	case Left:
		return region.PlaneZY
	default:
		return region.PlaneXY
	}
}

// ParsePerspective accepts "xy", "xz", "yz" or "front", "top", "left"
func ParsePerspective(name string) (Perspective, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xy", "front":
		return Front, nil
	case "xz", "top":
		return Top, nil
	case "yz", "zy", "left":
		return Left, nil
	}
	return 0, fmt.Errorf("unknown perspective %q", name)
}

// State is the immutable view selection of a session.
// Commands replace it with an updated copy.
type State struct {
	Perspective Perspective
	Projection  projection.Method
	Preview     bool
}

// DefaultState shows the front view unprojected without preview
func DefaultState() State {
	return State{Perspective: Front, Projection: projection.None}
}

// WithPerspective returns a copy showing p
func (s State) WithPerspective(p Perspective) State {
	s.Perspective = p
	return s
}

// WithProjection returns a copy projecting with m
func (s State) WithProjection(m projection.Method) State {
	if m == nil {
		m = projection.None
	}
	s.Projection = m
	return s
}

// WithPreview returns a copy with preview switched on or off
func (s State) WithPreview(on bool) State {
	s.Preview = on
	return s
}

func (s State) String() string {
	proj := "none"
	if s.Projection != nil {
		proj = s.Projection.String()
	}
	return fmt.Sprintf("perspective=%s projection=%s preview=%t", s.Perspective, proj, s.Preview)
}
