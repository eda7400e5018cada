package cpu

import (
	"github.com/born-ml/imageops/internal/parallel"
	"github.com/born-ml/imageops/internal/tensor"
)

// cropBox is a validated box in source pixel space.
type cropBox struct {
	image          int     // Batch index of the source image.
	startY, startX float64 // Source coordinate of output row/column 0.
	scaleY, scaleX float64 // Source step per output row/column.
}

// boxAxis maps the normalized box edges lo, hi onto an axis of size
// samples for an output of n samples. A single output sample takes the
// midpoint of the box.
func boxAxis(lo, hi float64, size, n int) (start, scale float64) {
	extent := float64(size - 1)
	if n == 1 {
		return 0.5 * (lo + hi) * extent, 0
	}
	return lo * extent, (hi - lo) * extent / float64(n-1)
}

// inRange reports whether coord lies within [0, size-1]. NaN is out of range.
func inRange(coord float64, size int) bool {
	return coord >= 0 && coord <= float64(size-1)
}

// CropAndResize extracts boxes from a batch of images and resamples each
// one to cropHeight x cropWidth.
//
// Input shapes:
//
//	images:     [batch, height, width, channels]
//	boxes:      [numBoxes, 4] normalized (y1, x1, y2, x2)
//	boxIndices: [numBoxes] batch index per box (int32, int64 or integral floats)
//
// Output shape: [numBoxes, cropHeight, cropWidth, channels] (caller-allocated)
//
// Output row r of box (y1, x1, y2, x2) samples source row
//
//	y1*(H-1) + r*(y2-y1)*(H-1)/(cropHeight-1)
//
// or the box midpoint 0.5*(y1+y2)*(H-1) when cropHeight == 1; columns follow
// the same rule with W. Rows and columns whose coordinate falls outside
// [0, H-1] or [0, W-1] are filled with extrapolation. Inverted boxes
// traverse the source backwards and are not rejected.
//
// All arguments are validated before the first write to output.
func (cpu *CPUBackend) CropAndResize(images, boxes, boxIndices *tensor.RawTensor, cropHeight, cropWidth int,
	method tensor.ResizeMethod, extrapolation float64, output *tensor.RawTensor,
) error {
	const op = tensor.OpCropAndResize

	if cropHeight <= 0 {
		return tensor.InvalidArgument(op, "crop_height", "must be > 0, got %d", cropHeight)
	}
	if cropWidth <= 0 {
		return tensor.InvalidArgument(op, "crop_width", "must be > 0, got %d", cropWidth)
	}
	if method != tensor.Bilinear && method != tensor.NearestNeighbor {
		return tensor.InvalidArgument(op, "method", "unsupported method %v", method)
	}

	batch, h, w, c, err := imageDims(op, "images", images)
	if err != nil {
		return err
	}
	if boxes == nil {
		return tensor.InvalidArgument(op, "boxes", "tensor is nil")
	}
	if len(boxes.Shape()) != 2 || boxes.Shape()[1] != 4 {
		return tensor.InvalidArgument(op, "boxes", "expected shape [num_boxes, 4], got %v", boxes.Shape())
	}
	if boxes.DType() != images.DType() {
		return tensor.InvalidArgument(op, "boxes", "dtype %s does not match images dtype %s", boxes.DType(), images.DType())
	}
	numBoxes := boxes.Shape()[0]

	indices, err := readBoxIndices(op, boxIndices, numBoxes, batch)
	if err != nil {
		return err
	}
	if err := checkOutput(op, output, tensor.Shape{numBoxes, cropHeight, cropWidth, c}, images.DType()); err != nil {
		return err
	}

	switch images.DType() {
	case tensor.Float32:
		cropAndResize[float32](output, images, readBoxes[float32](boxes, indices, h, w, cropHeight, cropWidth),
			h, w, c, method, float32(extrapolation), cpu.cfg)
	case tensor.Float64:
		cropAndResize[float64](output, images, readBoxes[float64](boxes, indices, h, w, cropHeight, cropWidth),
			h, w, c, method, extrapolation, cpu.cfg)
	}
	return nil
}

// readBoxes converts the normalized box rows into source pixel space.
func readBoxes[T tensor.Float](boxes *tensor.RawTensor, indices []int, h, w, cropHeight, cropWidth int) []cropBox {
	data := floatData[T](boxes)
	s := boxes.Strides()

	out := make([]cropBox, len(indices))
	for i, img := range indices {
		row := i * s[0]
		y1 := float64(data[row])
		x1 := float64(data[row+s[1]])
		y2 := float64(data[row+2*s[1]])
		x2 := float64(data[row+3*s[1]])

		box := cropBox{image: img}
		box.startY, box.scaleY = boxAxis(y1, y2, h, cropHeight)
		box.startX, box.scaleX = boxAxis(x1, x2, w, cropWidth)
		out[i] = box
	}
	return out
}

func cropAndResize[T tensor.Float](output, images *tensor.RawTensor, boxes []cropBox,
	h, w, channels int, method tensor.ResizeMethod, extrapolation T, cfg parallel.Config,
) {
	in := floatData[T](images)
	out := floatData[T](output)
	ins, outs := stridesOf(images), stridesOf(output)
	cropHeight, cropWidth := output.Shape()[1], output.Shape()[2]

	fill := func(o int) {
		for ch := 0; ch < channels; ch++ {
			out[o+ch*outs.ch] = extrapolation
		}
	}

	parallel.ForBatch(len(boxes), cropHeight, func(bi, oy int) {
		box := boxes[bi]
		dst := bi*outs.batch + oy*outs.row

		inY := box.startY + float64(oy)*box.scaleY
		if !inRange(inY, h) {
			for ox := 0; ox < cropWidth; ox++ {
				fill(dst + ox*outs.col)
			}
			return
		}

		base := box.image * ins.batch
		switch method {
		case tensor.Bilinear:
			y := bilinearTap(inY, h)
			top := base + y.lo*ins.row
			bottom := base + y.hi*ins.row
			for ox := 0; ox < cropWidth; ox++ {
				o := dst + ox*outs.col
				inX := box.startX + float64(ox)*box.scaleX
				if !inRange(inX, w) {
					fill(o)
					continue
				}
				x := bilinearTap(inX, w)
				left, right := x.lo*ins.col, x.hi*ins.col
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
		case tensor.NearestNeighbor:
			src := base + nearestIndex(inY, h)*ins.row
			for ox := 0; ox < cropWidth; ox++ {
				o := dst + ox*outs.col
				inX := box.startX + float64(ox)*box.scaleX
				if !inRange(inX, w) {
					fill(o)
					continue
				}
				p := src + nearestIndex(inX, w)*ins.col
				for ch := 0; ch < channels; ch++ {
					out[o+ch*outs.ch] = in[p+ch*ins.ch]
				}
			}
		}
	}, cfg)
}
