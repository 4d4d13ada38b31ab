package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Skip conditions: the affected question is dropped, not surfaced
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrTypeMismatch     = errors.New("column type mismatch")
	ErrEmptyTable       = errors.New("contingency table is empty")

	// Lookup errors
	ErrColumnNotFound = errors.New("column not found")

	// Computation errors surface as per-question error strings
	ErrComputation = errors.New("statistical computation failed")
)

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

func NewTypeMismatchError(name, wanted string) error {
	return fmt.Errorf("%w: %s is not %s", ErrTypeMismatch, name, wanted)
}

func NewComputationError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrComputation, op, err)
}

// IsSkip reports whether an error means "drop this question silently"
// rather than "report an error answer".
func IsSkip(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrEmptyTable)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}
