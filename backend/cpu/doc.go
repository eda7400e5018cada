// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for image resampling.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Bilinear and nearest-neighbor resize
//   - Crop-and-resize with extrapolation
//   - Float32 and Float64 support
//   - Batch processing, parallel over output rows
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
//	    img := tensor.Zeros[float32](tensor.Shape{2, 3, 4, 1}, backend)
//	    out, err := img.ResizeNearest(8, 6, true)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each call validates its
// arguments, then writes disjoint rows of the destination from worker
// goroutines and returns after all of them finish.
package cpu
