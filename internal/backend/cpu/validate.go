package cpu

import (
	"math"

	"github.com/born-ml/imageops/internal/tensor"
)

// imageDims validates a 4-D floating-point NHWC tensor and returns its extents.
func imageDims(op, arg string, r *tensor.RawTensor) (batch, height, width, channels int, err error) {
	if r == nil {
		return 0, 0, 0, 0, tensor.InvalidArgument(op, arg, "tensor is nil")
	}
	if !r.DType().IsFloat() {
		return 0, 0, 0, 0, tensor.InvalidArgument(op, arg, "unsupported dtype %s (want float32 or float64)", r.DType())
	}
	batch, height, width, channels, err = r.Shape().ImageDims()
	if err != nil {
		return 0, 0, 0, 0, tensor.InvalidArgument(op, arg, "%v", err)
	}
	return batch, height, width, channels, nil
}

// checkOutput verifies that output has exactly the shape and dtype the
// operation produces.
func checkOutput(op string, output *tensor.RawTensor, want tensor.Shape, dtype tensor.DataType) error {
	if output == nil {
		return tensor.InvalidArgument(op, "output", "tensor is nil")
	}
	if output.DType() != dtype {
		return tensor.InvalidArgument(op, "output", "dtype %s does not match input dtype %s", output.DType(), dtype)
	}
	if !output.Shape().Equal(want) {
		return tensor.InvalidArgument(op, "output", "shape %v does not match required shape %v", output.Shape(), want)
	}
	return nil
}

// validateResize checks the arguments shared by both resizers and returns
// the source image extents.
func validateResize(op string, image *tensor.RawTensor, width, height int, output *tensor.RawTensor) (batch, h, w, c int, err error) {
	if width <= 0 {
		return 0, 0, 0, 0, tensor.InvalidArgument(op, "width", "must be > 0, got %d", width)
	}
	if height <= 0 {
		return 0, 0, 0, 0, tensor.InvalidArgument(op, "height", "must be > 0, got %d", height)
	}
	batch, h, w, c, err = imageDims(op, "image", image)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if err := checkOutput(op, output, image.Shape().ResizedShape(height, width), image.DType()); err != nil {
		return 0, 0, 0, 0, err
	}
	return batch, h, w, c, nil
}

// readBoxIndices converts the box-to-image index tensor to ints, checking
// that every entry is an integral value in [0, batch).
func readBoxIndices(op string, indices *tensor.RawTensor, numBoxes, batch int) ([]int, error) {
	if indices == nil {
		return nil, tensor.InvalidArgument(op, "box_indices", "tensor is nil")
	}
	if len(indices.Shape()) != 1 || indices.Shape()[0] != numBoxes {
		return nil, tensor.InvalidArgument(op, "box_indices", "expected shape [%d], got %v", numBoxes, indices.Shape())
	}

	stride := indices.Strides()[0]
	out := make([]int, numBoxes)
	for i := range out {
		var v float64
		switch indices.DType() {
		case tensor.Int32:
			v = float64(indices.AsInt32()[i*stride])
		case tensor.Int64:
			v = float64(indices.AsInt64()[i*stride])
		case tensor.Float32:
			v = float64(indices.AsFloat32()[i*stride])
		case tensor.Float64:
			v = indices.AsFloat64()[i*stride]
		default:
			return nil, tensor.InvalidArgument(op, "box_indices", "unsupported dtype %s", indices.DType())
		}
		if math.Trunc(v) != v {
			return nil, tensor.InvalidArgument(op, "box_indices", "index %d is not an integer: %v", i, v)
		}
		if v < 0 || v >= float64(batch) {
			return nil, tensor.InvalidArgument(op, "box_indices", "index %d = %v out of range [0, %d)", i, v, batch)
		}
		out[i] = int(v)
	}
	return out, nil
}
