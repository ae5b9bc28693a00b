package region

import (
	"errors"
	"fmt"
)

// ErrNilRegion is returned when a nil region is stored
var ErrNilRegion = errors.New("nil region")

// Plane names one of the three orthogonal drawing planes
type Plane int

const (
	// PlaneXY is drawn on the front view, coordinates (x, y)
	PlaneXY Plane = iota
	// PlaneXZ is drawn on the top view, coordinates (x, z)
	PlaneXZ
	// PlaneZY is drawn on the left view, coordinates (z, y)
	PlaneZY
)

// Planes lists the planes in perspective order
var Planes = []Plane{PlaneXY, PlaneXZ, PlaneZY}

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneZY:
		return "zy"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}

// Store keeps the region of each plane. Unset planes hold the full
// rectangle of their two axes, so a volume with no drawn region is
// selected completely.
type Store struct {
	xDim, yDim, zDim int

	regions [3]Region
	set     [3]bool
	dirty   bool
}

// NewStore creates a store with full-extent defaults for an x, y, z extent
func NewStore(xDim, yDim, zDim int) *Store {
	s := &Store{xDim: xDim, yDim: yDim, zDim: zDim, dirty: true}
	for _, p := range Planes {
		s.regions[p] = s.Default(p)
	}
	return s
}

// Default returns the full rectangle of the plane
func (s *Store) Default(p Plane) Region {
	switch p {
	case PlaneXZ:
		return Full(s.xDim, s.zDim)
	case PlaneZY:
		return Full(s.zDim, s.yDim)
	default:
		return Full(s.xDim, s.yDim)
	}
}

// Set replaces the region of plane p
func (s *Store) Set(p Plane, r Region) error {
	if r == nil {
		return fmt.Errorf("set %s: %w", p, ErrNilRegion)
	}
	if err := p.check(); err != nil {
		return err
	}
	s.regions[p] = r
	s.set[p] = true
	s.dirty = true
	return nil
}

// Get returns the region of plane p. An unknown plane gets the full
// rectangle of the xy plane.
func (s *Store) Get(p Plane) Region {
	if p.check() != nil {
		return s.Default(p)
	}
	return s.regions[p]
}

// Reset restores the full-extent default of plane p
func (s *Store) Reset(p Plane) error {
	if err := p.check(); err != nil {
		return err
	}
	s.regions[p] = s.Default(p)
	s.set[p] = false
	s.dirty = true
	return nil
}

// IsComplete reports whether every plane has been set explicitly
func (s *Store) IsComplete() bool {
	return s.set[PlaneXY] && s.set[PlaneXZ] && s.set[PlaneZY]
}

// Unset lists the planes still holding their default
func (s *Store) Unset() []Plane {
	var out []Plane
	for _, p := range Planes {
		if !s.set[p] {
			out = append(out, p)
		}
	}
	return out
}

// Dirty reports whether a region changed since the last ClearDirty.
// A new store starts dirty.
func (s *Store) Dirty() bool {
	return s.dirty
}

// ClearDirty marks the current regions as consumed
func (s *Store) ClearDirty() {
	s.dirty = false
}

// Extent returns the x, y, z extent the defaults cover
func (s *Store) Extent() (xDim, yDim, zDim int) {
	return s.xDim, s.yDim, s.zDim
}

func (p Plane) check() error {
	if p < PlaneXY || p > PlaneZY {
		return fmt.Errorf("unknown plane %d", int(p))
	}
	return nil
}
