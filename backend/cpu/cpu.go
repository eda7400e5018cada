// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/imageops/internal/backend/cpu"
	"github.com/born-ml/imageops/internal/parallel"
	"github.com/born-ml/imageops/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of the resampling
// operations, split over output rows across goroutines.
type Backend = internalcpu.CPUBackend

// Config controls row-level parallelism of the CPU backend.
type Config = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using all available processors.
//
// Example:
//
//	import (
//	    "github.com/born-ml/imageops/backend/cpu"
//	    "github.com/born-ml/imageops/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    img := tensor.Zeros[float32](tensor.Shape{1, 64, 64, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.DefaultConfig().WithWorkers(2))
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the parallelism settings used by New.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// SequentialConfig returns settings that keep every call on the caller's goroutine.
func SequentialConfig() Config {
	return parallel.Sequential()
}
