// Package cpu implements the pure Go CPU backend for the resampling operations.
package cpu

import (
	"github.com/born-ml/imageops/internal/parallel"
	"github.com/born-ml/imageops/internal/tensor"
)

// CPUBackend implements tensor.Backend on the CPU.
//
// A CPUBackend is immutable after construction and safe for concurrent use.
// Work inside one call is split over output rows according to its
// parallel.Config.
type CPUBackend struct {
	device tensor.Device
	cfg    parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend using cfg for row-level parallelism.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		cfg:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Config returns the parallel execution configuration.
func (cpu *CPUBackend) Config() parallel.Config {
	return cpu.cfg
}

// floatData returns the typed element view of r.
// The caller guarantees r's dtype matches T.
func floatData[T tensor.Float](r *tensor.RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(r.AsFloat32()).([]T)
	case float64:
		return any(r.AsFloat64()).([]T)
	default:
		panic("unsupported type")
	}
}

// imageStrides holds NHWC element strides of an image tensor.
type imageStrides struct {
	batch, row, col, ch int
}

func stridesOf(r *tensor.RawTensor) imageStrides {
	s := r.Strides()
	return imageStrides{batch: s[0], row: s[1], col: s[2], ch: s[3]}
}
