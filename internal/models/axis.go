package models

import (
	"fmt"
	"math"
)

// AxisType identifies what a volume dimension represents
type AxisType int

const (
	// Unknown is any axis the tool does not interpret (time, lifetime, ...)
	Unknown AxisType = iota
	X
	Y
	Z
	Channel
)

// String returns the short axis name used in logs and ROI files
func (t AxisType) String() string {
	switch t {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	case Channel:
		return "channel"
	default:
		return "unknown"
	}
}

// Axis holds the metadata of one volume dimension
type Axis struct {
	// Type tells which spatial (or channel) axis this dimension is
	Type AxisType

	// Unit is the physical calibration unit, e.g. "µm"
	Unit string

	// Scale is the physical size of one sample along the axis
	Scale float64
}

// NewAxis creates an axis of the given type with unit scale
func NewAxis(t AxisType) Axis {
	return Axis{Type: t, Scale: 1}
}

// SampleType is the native numeric type of the samples of a volume.
// Samples are always stored as float64, the type only bounds their range.
type SampleType int

const (
	Float64 SampleType = iota
	Float32
	Bit
	Uint8
	Uint16
	Int16
)

// String returns the sample type name
func (s SampleType) String() string {
	switch s {
	case Bit:
		return "bit"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("SampleType(%d)", int(s))
	}
}

// IsInteger reports whether the type has a bounded integer range
func (s SampleType) IsInteger() bool {
	switch s {
	case Bit, Uint8, Uint16, Int16:
		return true
	}
	return false
}

// Max returns the largest representable value of the type
func (s SampleType) Max() float64 {
	switch s {
	case Bit:
		return 1
	case Uint8:
		return math.MaxUint8
	case Uint16:
		return math.MaxUint16
	case Int16:
		return math.MaxInt16
	case Float32:
		return math.MaxFloat32
	default:
		return math.MaxFloat64
	}
}

// Clamp converts v to the nearest value representable by the type
func (s SampleType) Clamp(v float64) float64 {
	switch s {
	case Bit:
		if v != 0 {
			return 1
		}
		return 0
	case Uint8, Uint16:
		return math.Max(0, math.Min(s.Max(), math.Round(v)))
	case Int16:
		return math.Max(math.MinInt16, math.Min(s.Max(), math.Round(v)))
	case Float32:
		return float64(float32(math.Max(-math.MaxFloat32, math.Min(math.MaxFloat32, v))))
	default:
		return v
	}
}
