package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleTypeClamp(t *testing.T) {
	assert.Equal(t, 255.0, Uint8.Clamp(300))
	assert.Equal(t, 0.0, Uint16.Clamp(-4))
	assert.Equal(t, 3.0, Uint8.Clamp(2.6))
	assert.Equal(t, -32768.0, Int16.Clamp(-40000))
	assert.Equal(t, 1.0, Bit.Clamp(7))
	assert.Equal(t, 0.0, Bit.Clamp(0))
	assert.Equal(t, 1.5, Float64.Clamp(1.5))
	assert.Equal(t, 0.25, Float32.Clamp(0.25))
}

func TestFloat32ClampStaysFinite(t *testing.T) {
	assert.Equal(t, float64(math.MaxFloat32), Float32.Clamp(1e300))
	assert.Equal(t, -float64(math.MaxFloat32), Float32.Clamp(-1e300))
	assert.False(t, math.IsInf(Float32.Clamp(math.MaxFloat64), 0))
}

func TestSampleTypeMax(t *testing.T) {
	assert.Equal(t, 1.0, Bit.Max())
	assert.Equal(t, 255.0, Uint8.Max())
	assert.Equal(t, 65535.0, Uint16.Max())
	assert.Equal(t, 32767.0, Int16.Max())
	assert.True(t, Uint16.IsInteger())
	assert.False(t, Float32.IsInteger())
}

func TestAxisTypeString(t *testing.T) {
	assert.Equal(t, "x", X.String())
	assert.Equal(t, "channel", Channel.String())
	assert.Equal(t, "unknown", Unknown.String())
}
