package cpu

import (
	"github.com/born-ml/imageops/internal/parallel"
	"github.com/born-ml/imageops/internal/tensor"
)

// ResizeBilinear resizes a batch of images with bilinear interpolation.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, outHeight, outWidth, channels] (caller-allocated)
//
// For each output pixel the source coordinate along each axis is
//
//	center: src = max((d + 0.5) * S/D - 0.5, 0)
//	corner: src = d * S/D
//
// and the value is the blend of the four neighbors (y0, x0), (y0, x1),
// (y1, x0), (y1, x1) where y0 = floor(srcY), y1 = min(y0+1, H-1) and the
// weights are the fractional parts clamped to [0, 1]. Channels are
// interpolated independently.
//
// Example (2x2 -> 4x4, center):
//
//	[[1, 2],     [[1.0, 1.25, 1.75, 2.0],
//	 [3, 4]]  ->  [1.5, 1.75, 2.25, 2.5],
//	              [2.5, 2.75, 3.25, 3.5],
//	              [3.0, 3.25, 3.75, 4.0]]
func (cpu *CPUBackend) ResizeBilinear(image *tensor.RawTensor, width, height int, center bool, output *tensor.RawTensor) error {
	batch, h, w, c, err := validateResize(tensor.OpResizeBilinear, image, width, height, output)
	if err != nil {
		return err
	}

	ys := computeInterpolation(h, height, center)
	xs := computeInterpolation(w, width, center)

	switch image.DType() {
	case tensor.Float32:
		resizeBilinear[float32](output, image, batch, c, ys, xs, cpu.cfg)
	case tensor.Float64:
		resizeBilinear[float64](output, image, batch, c, ys, xs, cpu.cfg)
	}
	return nil
}

func resizeBilinear[T tensor.Float](output, input *tensor.RawTensor, batch, channels int,
	ys, xs []interpolation, cfg parallel.Config,
) {
	in := floatData[T](input)
	out := floatData[T](output)
	ins, outs := stridesOf(input), stridesOf(output)

	parallel.ForBatch(batch, len(ys), func(b, oy int) {
		y := ys[oy]
		top := b*ins.batch + y.lo*ins.row
		bottom := b*ins.batch + y.hi*ins.row
		dst := b*outs.batch + oy*outs.row

		for ox, x := range xs {
			left, right := x.lo*ins.col, x.hi*ins.col
			o := dst + ox*outs.col
			for ch := 0; ch < channels; ch++ {
				cs := ch * ins.ch
				v := blend(
					float64(in[top+left+cs]), float64(in[top+right+cs]),
					float64(in[bottom+left+cs]), float64(in[bottom+right+cs]),
					y.lerp, x.lerp,
				)
				out[o+ch*outs.ch] = T(v)
			}
		}
	}, cfg)
}

// ResizeNearest resizes a batch of images by nearest-sample selection.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, outHeight, outWidth, channels] (caller-allocated)
//
// Source coordinates follow ResizeBilinear; the selected sample is
// floor(src + 0.5) clamped to [0, S-1], so ties round toward the higher
// index. The whole channel vector of the selected pixel is copied.
func (cpu *CPUBackend) ResizeNearest(image *tensor.RawTensor, width, height int, center bool, output *tensor.RawTensor) error {
	batch, h, w, c, err := validateResize(tensor.OpResizeNearest, image, width, height, output)
	if err != nil {
		return err
	}

	ys := computeNearest(h, height, center)
	xs := computeNearest(w, width, center)

	switch image.DType() {
	case tensor.Float32:
		resizeNearest[float32](output, image, batch, c, ys, xs, cpu.cfg)
	case tensor.Float64:
		resizeNearest[float64](output, image, batch, c, ys, xs, cpu.cfg)
	}
	return nil
}

func resizeNearest[T tensor.Float](output, input *tensor.RawTensor, batch, channels int,
	ys, xs []int, cfg parallel.Config,
) {
	in := floatData[T](input)
	out := floatData[T](output)
	ins, outs := stridesOf(input), stridesOf(output)

	parallel.ForBatch(batch, len(ys), func(b, oy int) {
		src := b*ins.batch + ys[oy]*ins.row
		dst := b*outs.batch + oy*outs.row

		for ox, sx := range xs {
			p := src + sx*ins.col
			o := dst + ox*outs.col
			for ch := 0; ch < channels; ch++ {
				out[o+ch*outs.ch] = in[p+ch*ins.ch]
			}
		}
	}, cfg)
}
