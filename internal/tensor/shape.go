package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// Image batch axes (NHWC).
const (
	AxisBatch = iota
	AxisHeight
	AxisWidth
	AxisChannel
)

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// stride[i] is the product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ImageDims splits a 4-D NHWC shape into its batch, height, width and
// channel extents. It returns an error for any other rank.
func (s Shape) ImageDims() (batch, height, width, channels int, err error) {
	if len(s) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected 4D [batch, height, width, channels], got %dD %v", len(s), s)
	}
	return s[AxisBatch], s[AxisHeight], s[AxisWidth], s[AxisChannel], nil
}

// ResizedShape returns the NHWC shape of s resized to height x width.
func (s Shape) ResizedShape(height, width int) Shape {
	out := s.Clone()
	out[AxisHeight] = height
	out[AxisWidth] = width
	return out
}
