package tensor

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the single error kind returned by the resampling
// operations. Every failure leaves the destination tensor unmodified.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes which argument of which operation failed validation.
type ArgumentError struct {
	Op      string // Operation name (e.g., "resize_bilinear")
	Arg     string // Argument name (e.g., "width", "box_indices")
	Details string // Additional details
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("%s: %v: %s: %s", e.Op, ErrInvalidArgument, e.Arg, e.Details)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalidArgument, e.Details)
}

// Unwrap makes errors.Is(err, ErrInvalidArgument) hold for every ArgumentError.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidArgument builds an *ArgumentError with a formatted detail message.
func InvalidArgument(op, arg, format string, args ...any) error {
	return &ArgumentError{Op: op, Arg: arg, Details: fmt.Sprintf(format, args...)}
}
