package scenario

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure returned by this package wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	// ErrInvalidInput indicates an empty, non-finite or non-positive sample
	// where a usable one is required.
	ErrInvalidInput = errors.New("scenario: invalid input")

	// ErrShapeMismatch indicates two sequences that must have equal length do not.
	ErrShapeMismatch = errors.New("scenario: shape mismatch")

	// ErrInvalidParameter indicates a configuration value outside its domain.
	ErrInvalidParameter = errors.New("scenario: invalid parameter")

	// ErrDegenerateTarget indicates a target histogram without any positive bin.
	ErrDegenerateTarget = errors.New("scenario: target histogram has no positive bin")

	// ErrInvalidWeights indicates sampling weights that sum to zero or are negative.
	ErrInvalidWeights = errors.New("scenario: invalid sampling weights")

	// ErrNoFeasibleSelection indicates the search budget ran out without
	// producing a single non-empty candidate.
	ErrNoFeasibleSelection = errors.New("scenario: no feasible selection")
)

// ParamError names the configuration field that failed validation.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s %s, got %v", ErrInvalidParameter, e.Field, e.Reason, e.Value)
}

// Unwrap lets errors.Is(err, ErrInvalidParameter) match.
func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

func paramErr(field string, value any, reason string) error {
	return &ParamError{Field: field, Value: value, Reason: reason}
}
