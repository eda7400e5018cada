package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrOffsetOverlap     = errors.New("tensor offsets overlap")
	ErrOutOfBounds       = errors.New("tensor extends beyond data section")
	ErrNegativeOffset    = errors.New("negative offset or size")
	ErrSizeMismatch      = errors.New("tensor byte size does not match shape and dtype")
	ErrTooManyTensors    = errors.New("too many tensors in file")
	ErrTensorNameTooLong = errors.New("tensor name too long")
	ErrInvalidTensorName = errors.New("invalid tensor name")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
	ErrUnsupportedDType  = errors.New("unsupported dtype")
)

// Validation error types.
const (
	errTypeOffsetOverlap  = "offset_overlap"
	errTypeOutOfBounds    = "out_of_bounds"
	errTypeNegativeOffset = "negative_offset"
	errTypeSizeMismatch   = "size_mismatch"
	errTypeTooMany        = "too_many_tensors"
	errTypeNameTooLong    = "name_too_long"
	errTypeInvalidName    = "invalid_name"
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor2 != "" {
		return fmt.Sprintf("%s: tensors %q and %q: %s", e.Type, e.Tensor, e.Tensor2, e.Details)
	}
	if e.Tensor != "" {
		return fmt.Sprintf("%s: tensor %q: %s", e.Type, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the sentinel matching the error type, so callers can use
// errors.Is(err, ErrOutOfBounds) and friends.
func (e *ValidationError) Unwrap() error {
	switch e.Type {
	case errTypeOffsetOverlap:
		return ErrOffsetOverlap
	case errTypeOutOfBounds:
		return ErrOutOfBounds
	case errTypeNegativeOffset:
		return ErrNegativeOffset
	case errTypeSizeMismatch:
		return ErrSizeMismatch
	case errTypeTooMany:
		return ErrTooManyTensors
	case errTypeNameTooLong:
		return ErrTensorNameTooLong
	case errTypeInvalidName:
		return ErrInvalidTensorName
	default:
		return nil
	}
}
