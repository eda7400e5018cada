// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/imageops/internal/tensor"

// Backend defines the interface that compute backends implement.
//
// Implementations:
//   - backend/cpu: Pure Go, parallel over output rows
//
// Every operation writes into a caller-supplied destination whose shape
// already matches the output, and returns an error wrapping
// ErrInvalidArgument on bad input without touching the destination.
//
// Example:
//
//	import (
//	    "github.com/born-ml/imageops/backend/cpu"
//	    "github.com/born-ml/imageops/tensor"
//	)
//
//	backend := cpu.New()
//	img := tensor.Zeros[float32](tensor.Shape{1, 32, 32, 3}, backend)
//	out, err := img.ResizeBilinear(64, 64, true) // Uses backend.ResizeBilinear
type Backend = tensor.Backend

// ResizeMethod selects bilinear or nearest-neighbor sampling for CropAndResize.
type ResizeMethod = tensor.ResizeMethod

// Resize methods.
const (
	Bilinear        ResizeMethod = tensor.Bilinear
	NearestNeighbor ResizeMethod = tensor.NearestNeighbor
)

// ParseResizeMethod maps "bilinear" or "nearest" to a ResizeMethod.
func ParseResizeMethod(name string) (ResizeMethod, error) {
	return tensor.ParseResizeMethod(name)
}
