package tensor

import "fmt"

// ResizeMethod selects the sampling rule used by CropAndResize.
// The numeric values match the method codes of the original engine.
type ResizeMethod int

// Supported resize methods.
const (
	Bilinear ResizeMethod = iota
	NearestNeighbor
)

// String returns the method name.
func (m ResizeMethod) String() string {
	switch m {
	case Bilinear:
		return "bilinear"
	case NearestNeighbor:
		return "nearest"
	default:
		return fmt.Sprintf("ResizeMethod(%d)", int(m))
	}
}

// ParseResizeMethod maps a method name ("bilinear", "nearest") to a ResizeMethod.
func ParseResizeMethod(name string) (ResizeMethod, error) {
	switch name {
	case "bilinear":
		return Bilinear, nil
	case "nearest", "nearest_neighbor":
		return NearestNeighbor, nil
	default:
		return 0, fmt.Errorf("unknown resize method %q (want bilinear or nearest)", name)
	}
}

// Backend defines the interface that compute backends implement.
//
// All image tensors use the NHWC layout [batch, height, width, channels].
// The caller supplies a destination tensor whose shape already matches the
// operation's output; a backend never allocates or reshapes it. When an
// operation returns an error the destination is left exactly as it was.
type Backend interface {
	// ResizeBilinear resamples image to height x width with bilinear
	// interpolation. center selects half-pixel center alignment.
	ResizeBilinear(image *RawTensor, width, height int, center bool, output *RawTensor) error

	// ResizeNearest resamples image to height x width by nearest-sample
	// selection (round half up).
	ResizeNearest(image *RawTensor, width, height int, center bool, output *RawTensor) error

	// CropAndResize crops boxes [numBoxes, 4] of normalized (y1, x1, y2, x2)
	// from images selected by boxIndices and resamples each crop to
	// cropHeight x cropWidth. Samples outside the source extent are set to
	// extrapolation.
	CropAndResize(images, boxes, boxIndices *RawTensor, cropHeight, cropWidth int,
		method ResizeMethod, extrapolation float64, output *RawTensor) error

	// Metadata
	Name() string
	Device() Device
}
