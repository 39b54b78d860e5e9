package types

import "errors"

// Domain errors for type validation
var (
	// Pitch errors
	ErrInvalidPitchClass = errors.New("pitch class must be between 0 and 11")
	ErrMissingRootOffset = errors.New("interval set must contain 0")
	ErrUnsortedIntervals = errors.New("interval set must be sorted and unique")

	// Matching errors
	ErrInsufficientNotes = errors.New("at least 3 distinct pitch classes are required")
	ErrInvalidRank       = errors.New("rank must be >= 1")
	ErrEmptyQuality      = errors.New("quality name cannot be empty")
	ErrUnknownOutcome    = errors.New("unknown identification outcome")
)
