// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for image tensors and resampling.
//
// The package defines core types for type-safe tensor operations:
//   - Tensor[T, B]: High-level generic tensor with resize methods
//   - RawTensor: Low-level strided tensor for backend implementations
//   - Backend: Interface for compute implementations
//   - Shape, DataType, Device: Core type definitions
//
// Example:
//
//	backend := cpu.New()
//	img, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1}, backend)
//	big, err := img.ResizeBilinear(4, 4, true)
package tensor

import (
	"github.com/born-ml/imageops/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// Float is the constraint for element types the resampling operations accept.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only device; accelerator execution is out of scope.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
// Images use the NHWC layout: Shape{batch, height, width, channels}.
type Shape = tensor.Shape

// Axis positions of an NHWC image shape.
const (
	AxisBatch   = tensor.AxisBatch
	AxisHeight  = tensor.AxisHeight
	AxisWidth   = tensor.AxisWidth
	AxisChannel = tensor.AxisChannel
)

// Tensor is a generic type-safe tensor.
//
// T is the data type (float32, float64, int32, int64).
// B is the backend implementation.
//
// Image tensors expose ResizeBilinear, ResizeNearest and their Into variants,
// which write into a caller-supplied destination.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// ArgumentError describes a failed argument check; it unwraps to ErrInvalidArgument.
type ArgumentError = tensor.ArgumentError

// ErrInvalidArgument is returned (wrapped) by every failed resampling call.
var ErrInvalidArgument = tensor.ErrInvalidArgument

// Creation functions

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{1, 8, 8, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Full[float32](tensor.Shape{1, 8, 8, 3}, 0.5, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Arange creates a tensor holding 0, 1, 2, ... in row-major order.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Arange[float32](tensor.Shape{1, 2, 3, 1}, backend) // [[0 1 2] [3 4 5]]
func Arange[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Arange[T, B](shape, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	backend := cpu.New()
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 3, 1}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions like
// Zeros or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// Image operations

// CropAndResize crops normalized (y1, x1, y2, x2) boxes from images and
// resamples each to cropHeight x cropWidth.
//
// Example:
//
//	boxes, _ := tensor.FromSlice([]float32{0.1, 0.1, 0.6, 0.6}, tensor.Shape{1, 4}, backend)
//	idx, _ := tensor.FromSlice([]int32{0}, tensor.Shape{1}, backend)
//	crops, err := tensor.CropAndResize(images, boxes, idx, 32, 32, tensor.Bilinear, 0)
func CropAndResize[T, I DType, B Backend](images, boxes *Tensor[T, B], boxIndices *Tensor[I, B],
	cropHeight, cropWidth int, method ResizeMethod, extrapolation float64,
) (*Tensor[T, B], error) {
	return tensor.CropAndResize(images, boxes, boxIndices, cropHeight, cropWidth, method, extrapolation)
}

// CropAndResizeInto is CropAndResize writing into a caller-supplied dst of
// shape [numBoxes, cropHeight, cropWidth, channels].
func CropAndResizeInto[T, I DType, B Backend](dst, images, boxes *Tensor[T, B], boxIndices *Tensor[I, B],
	cropHeight, cropWidth int, method ResizeMethod, extrapolation float64,
) error {
	return tensor.CropAndResizeInto(dst, images, boxes, boxIndices, cropHeight, cropWidth, method, extrapolation)
}
