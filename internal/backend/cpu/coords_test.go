package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceCoord(t *testing.T) {
	tests := []struct {
		name   string
		d      int
		scale  float64
		center bool
		want   float64
	}{
		{"corner origin", 0, 0.5, false, 0},
		{"corner upsample", 3, 0.5, false, 1.5},
		{"corner downsample", 2, 2, false, 4},
		{"center clamps negative", 0, 0.5, true, 0},
		{"center upsample", 1, 0.5, true, 0.25},
		{"center downsample", 1, 2, true, 2.5},
		{"center identity", 3, 1, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sourceCoord(tt.d, tt.scale, tt.center), 1e-12)
		})
	}
}

func TestBilinearTap(t *testing.T) {
	tests := []struct {
		coord float64
		size  int
		want  interpolation
	}{
		{0, 4, interpolation{lo: 0, hi: 0, lerp: 0}},
		{0.25, 4, interpolation{lo: 0, hi: 1, lerp: 0.25}},
		{2.5, 4, interpolation{lo: 2, hi: 3, lerp: 0.5}},
		{3, 4, interpolation{lo: 3, hi: 3, lerp: 0}},
		{3.5, 4, interpolation{lo: 3, hi: 3, lerp: 0.5}}, // Past the last sample: both taps collapse.
		{0.7, 1, interpolation{lo: 0, hi: 0, lerp: 0.7}}, // Single-sample axis.
	}

	for _, tt := range tests {
		got := bilinearTap(tt.coord, tt.size)
		assert.Equal(t, tt.want.lo, got.lo, "lo for coord %v", tt.coord)
		assert.Equal(t, tt.want.hi, got.hi, "hi for coord %v", tt.coord)
		assert.InDelta(t, tt.want.lerp, got.lerp, 1e-12, "lerp for coord %v", tt.coord)
	}
}

func TestNearestIndex_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 0, nearestIndex(0.49, 4))
	assert.Equal(t, 1, nearestIndex(0.5, 4))
	assert.Equal(t, 3, nearestIndex(2.5, 4))
	assert.Equal(t, 3, nearestIndex(7.2, 4), "clamped to the last sample")
	assert.Equal(t, 0, nearestIndex(-3, 4), "clamped to the first sample")
}

func TestComputeInterpolation_Identity(t *testing.T) {
	for _, center := range []bool{true, false} {
		taps := computeInterpolation(7, 7, center)
		for d, tap := range taps {
			assert.Equal(t, interpolation{lo: d, hi: d, lerp: 0}, tap)
		}
		idx := computeNearest(7, 7, center)
		for d, i := range idx {
			assert.Equal(t, d, i)
		}
	}
}

func TestComputeNearest_SinglePixel(t *testing.T) {
	// Center: (0 + 0.5) * 4 - 0.5 = 1.5 rounds up to 2.
	assert.Equal(t, []int{2}, computeNearest(4, 1, true))
	// Corner: 0 * 4 = 0.
	assert.Equal(t, []int{0}, computeNearest(4, 1, false))
}

func TestBlend(t *testing.T) {
	assert.InDelta(t, 1.0, blend(1, 2, 3, 4, 0, 0), 1e-12)
	assert.InDelta(t, 4.0, blend(1, 2, 3, 4, 1, 1), 1e-12)
	assert.InDelta(t, 2.5, blend(1, 2, 3, 4, 0.5, 0.5), 1e-12)
	assert.InDelta(t, 1.5, blend(1, 2, 3, 4, 0, 0.5), 1e-12)
}
