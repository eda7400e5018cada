package tensor

// Operation names used in ArgumentError.Op.
const (
	OpResizeBilinear = "resize_bilinear"
	OpResizeNearest  = "resize_nearest_neighbor"
	OpCropAndResize  = "crop_and_resize"
)

// ResizeBilinear returns t [batch, H, W, C] resized to height x width with
// bilinear interpolation.
//
// Example:
//
//	img, _ := tensor.FromSlice[float32]([]float32{1, 2, 3, 4}, Shape{1, 2, 2, 1}, backend)
//	out, err := img.ResizeBilinear(4, 4, true) // [1, 4, 4, 1]
func (t *Tensor[T, B]) ResizeBilinear(width, height int, center bool) (*Tensor[T, B], error) {
	dst, err := t.resizeTarget(OpResizeBilinear, width, height)
	if err != nil {
		return nil, err
	}
	if err := t.ResizeBilinearInto(dst, width, height, center); err != nil {
		return nil, err
	}
	return dst, nil
}

// ResizeBilinearInto writes the bilinear resize of t into dst, which must
// already have shape [batch, height, width, C].
func (t *Tensor[T, B]) ResizeBilinearInto(dst *Tensor[T, B], width, height int, center bool) error {
	return t.backend.ResizeBilinear(t.raw, width, height, center, dst.raw)
}

// ResizeNearest returns t [batch, H, W, C] resized to height x width by
// nearest-neighbor selection.
func (t *Tensor[T, B]) ResizeNearest(width, height int, center bool) (*Tensor[T, B], error) {
	dst, err := t.resizeTarget(OpResizeNearest, width, height)
	if err != nil {
		return nil, err
	}
	if err := t.ResizeNearestInto(dst, width, height, center); err != nil {
		return nil, err
	}
	return dst, nil
}

// ResizeNearestInto writes the nearest-neighbor resize of t into dst, which
// must already have shape [batch, height, width, C].
func (t *Tensor[T, B]) ResizeNearestInto(dst *Tensor[T, B], width, height int, center bool) error {
	return t.backend.ResizeNearest(t.raw, width, height, center, dst.raw)
}

// resizeTarget allocates the destination of a resize after checking the
// arguments that determine its shape.
func (t *Tensor[T, B]) resizeTarget(op string, width, height int) (*Tensor[T, B], error) {
	if width <= 0 {
		return nil, InvalidArgument(op, "width", "must be > 0, got %d", width)
	}
	if height <= 0 {
		return nil, InvalidArgument(op, "height", "must be > 0, got %d", height)
	}
	if _, _, _, _, err := t.Shape().ImageDims(); err != nil {
		return nil, InvalidArgument(op, "image", "%v", err)
	}
	return Zeros[T, B](t.Shape().ResizedShape(height, width), t.backend), nil
}

// CropAndResize crops each box of boxes [numBoxes, 4] from the image of
// images [batch, H, W, C] selected by boxIndices [numBoxes] and resamples it
// to cropHeight x cropWidth. The result has shape
// [numBoxes, cropHeight, cropWidth, C].
//
// Boxes hold normalized (y1, x1, y2, x2) coordinates. Coordinates outside
// [0, 1] and inverted boxes are allowed; samples that fall outside the image
// are set to extrapolation.
//
// Example:
//
//	boxes, _ := tensor.FromSlice[float32]([]float32{0, 0, 0.5, 0.5}, Shape{1, 4}, backend)
//	idx, _ := tensor.FromSlice[int32]([]int32{0}, Shape{1}, backend)
//	crops, err := tensor.CropAndResize(images, boxes, idx, 8, 8, tensor.Bilinear, 0)
func CropAndResize[T, I DType, B Backend](images, boxes *Tensor[T, B], boxIndices *Tensor[I, B],
	cropHeight, cropWidth int, method ResizeMethod, extrapolation float64,
) (*Tensor[T, B], error) {
	if cropHeight <= 0 {
		return nil, InvalidArgument(OpCropAndResize, "crop_height", "must be > 0, got %d", cropHeight)
	}
	if cropWidth <= 0 {
		return nil, InvalidArgument(OpCropAndResize, "crop_width", "must be > 0, got %d", cropWidth)
	}
	_, _, _, channels, err := images.Shape().ImageDims()
	if err != nil {
		return nil, InvalidArgument(OpCropAndResize, "images", "%v", err)
	}
	if len(boxes.Shape()) != 2 {
		return nil, InvalidArgument(OpCropAndResize, "boxes", "expected 2D [num_boxes, 4], got %v", boxes.Shape())
	}

	dst := Zeros[T, B](Shape{boxes.Shape()[0], cropHeight, cropWidth, channels}, images.backend)
	if err := CropAndResizeInto(dst, images, boxes, boxIndices, cropHeight, cropWidth, method, extrapolation); err != nil {
		return nil, err
	}
	return dst, nil
}

// CropAndResizeInto is CropAndResize writing into a caller-supplied dst of
// shape [numBoxes, cropHeight, cropWidth, C].
func CropAndResizeInto[T, I DType, B Backend](dst, images, boxes *Tensor[T, B], boxIndices *Tensor[I, B],
	cropHeight, cropWidth int, method ResizeMethod, extrapolation float64,
) error {
	return images.backend.CropAndResize(images.raw, boxes.raw, boxIndices.raw,
		cropHeight, cropWidth, method, extrapolation, dst.raw)
}
