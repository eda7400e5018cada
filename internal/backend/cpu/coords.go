package cpu

import "math"

// axisScale returns the source/destination extent ratio along one axis.
// dst must be positive; callers validate sizes first.
func axisScale(src, dst int) float64 {
	return float64(src) / float64(dst)
}

// sourceCoord maps destination index d to a continuous source coordinate.
//
// Center alignment maps pixel centers: (d + 0.5) * scale - 0.5, clamped at 0.
// Corner alignment maps pixel origins: d * scale.
func sourceCoord(d int, scale float64, center bool) float64 {
	if center {
		return max((float64(d)+0.5)*scale-0.5, 0)
	}
	return float64(d) * scale
}

// interpolation is a precomputed bilinear tap along one axis.
type interpolation struct {
	lo, hi int     // Neighbor indices, lo <= hi <= size-1.
	lerp   float64 // Weight of hi, in [0, 1].
}

// bilinearTap returns the two neighbors of coord within [0, size-1] and the
// weight of the upper one.
func bilinearTap(coord float64, size int) interpolation {
	lo := min(max(int(math.Floor(coord)), 0), size-1)
	hi := min(lo+1, size-1)
	lerp := min(max(coord-float64(lo), 0), 1)
	if lerp == 0 {
		hi = lo
	}
	return interpolation{lo: lo, hi: hi, lerp: lerp}
}

// nearestIndex rounds coord half up and clamps it to [0, size-1].
func nearestIndex(coord float64, size int) int {
	return min(max(int(math.Floor(coord+0.5)), 0), size-1)
}

// computeInterpolation precomputes the bilinear taps of every destination
// index along an axis of src source samples and dst destination samples.
func computeInterpolation(src, dst int, center bool) []interpolation {
	taps := make([]interpolation, dst)
	if src == dst {
		for d := range taps {
			taps[d] = interpolation{lo: d, hi: d}
		}
		return taps
	}

	scale := axisScale(src, dst)
	for d := range taps {
		taps[d] = bilinearTap(sourceCoord(d, scale, center), src)
	}
	return taps
}

// computeNearest precomputes the selected source index of every destination
// index along an axis.
func computeNearest(src, dst int, center bool) []int {
	idx := make([]int, dst)
	if src == dst {
		for d := range idx {
			idx[d] = d
		}
		return idx
	}

	scale := axisScale(src, dst)
	for d := range idx {
		idx[d] = nearestIndex(sourceCoord(d, scale, center), src)
	}
	return idx
}

// blend is the bilinear combination of the four neighbors p00 (lo, lo),
// p01 (lo, hi), p10 (hi, lo) and p11 (hi, hi) with row weight wy and column
// weight wx.
func blend(p00, p01, p10, p11, wy, wx float64) float64 {
	return (1-wy)*(1-wx)*p00 + (1-wy)*wx*p01 + wy*(1-wx)*p10 + wy*wx*p11
}
