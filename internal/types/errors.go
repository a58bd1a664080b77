package types

import "errors"

var (
	// ErrValidation is returned when a required field is empty or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate is returned when an entry of the same kind already has the source.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNotFound is returned when an operation references an unknown id.
	ErrNotFound = errors.New("entry not found")
	// ErrInsufficientData is returned when a session cannot be sampled.
	ErrInsufficientData = errors.New("not enough entries")
)
