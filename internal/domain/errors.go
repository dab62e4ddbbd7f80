package domain

import "errors"

// Domain errors represent error conditions in the bulk domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidBlockSize is returned when the static block size is not positive.
	ErrInvalidBlockSize = errors.New("bulk: block size must be a positive integer")

	// ErrUnknownOutput is returned when an output name is not recognised.
	ErrUnknownOutput = errors.New("bulk: unknown output")

	// ErrSinkPanic wraps a panic recovered while delivering to a sink.
	ErrSinkPanic = errors.New("bulk: sink panicked")
)
