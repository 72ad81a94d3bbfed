package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown processor or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Transcript Errors.

	// ErrMalformedTime indicates a time marker that is not HH:MM:SS integers.
	ErrMalformedTime = errors.New("malformed time")

	// ErrMissingTime indicates speech was attributed to a speaker before
	// any time marker was announced.
	ErrMissingTime = errors.New("missing time")
)

// LineError locates a transcript error at a specific line of an episode.
// Line numbers are 1-based and refer to the canonical annotated text.
type LineError struct {
	EpisodeID string
	Line      int
	Value     string
	Err       error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s line %d: %v", e.EpisodeID, e.Line, e.Err)
	}
	return fmt.Sprintf("%s line %d: %v %q", e.EpisodeID, e.Line, e.Err, e.Value)
}

// Unwrap returns the underlying sentinel so errors.Is works.
func (e *LineError) Unwrap() error {
	return e.Err
}
