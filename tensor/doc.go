// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe image tensors and resampling operations.
//
// # Overview
//
// Images are 4-D tensors in NHWC layout: Shape{batch, height, width, channels}.
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - Bilinear and nearest-neighbor resize with center or corner alignment
//   - Crop-and-resize of normalized boxes with an extrapolation value
//   - Caller-owned destinations via the Into variants
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/imageops/backend/cpu"
//	    "github.com/born-ml/imageops/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    img := tensor.Zeros[float32](tensor.Shape{1, 480, 640, 3}, backend)
//	    thumb, err := img.ResizeBilinear(160, 120, true)
//
//	    // Reuse a destination across calls.
//	    dst := tensor.Zeros[float32](tensor.Shape{1, 120, 160, 3}, backend)
//	    err = img.ResizeNearestInto(dst, 160, 120, true)
//	}
//
// # Alignment
//
// With center alignment a destination index d maps to the source coordinate
// (d + 0.5) * S/D - 0.5 (clamped at 0); with corner alignment it maps to
// d * S/D. Resizing to the source size is an exact identity in both modes.
//
// # Errors
//
// Every failure wraps ErrInvalidArgument and leaves the destination
// unmodified:
//
//	if errors.Is(err, tensor.ErrInvalidArgument) { ... }
//
// # Supported Data Types
//
// Images, boxes and destinations are float32 or float64. Box indices may be
// int32, int64 or integral float32/float64 values.
package tensor
