package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed samples, tables or configuration
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotConverged marks an iterative fit that ran out of iterations
	ErrNotConverged = errors.New("fit did not converge")
	// ErrOutOfRange marks a query outside a reference table
	ErrOutOfRange = errors.New("query out of range")
)

// InputError describes which input was rejected and why
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// NewInputError builds an InputError with a formatted reason
func NewInputError(field, format string, args ...interface{}) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConvergenceError is returned when the solver exhausts its iteration budget
type ConvergenceError struct {
	Iterations int
	ChiSquare  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("fit did not converge after %d iterations (chi2=%g)", e.Iterations, e.ChiSquare)
}

func (e *ConvergenceError) Is(target error) bool { return target == ErrNotConverged }

// OutOfRangeError is returned for a query outside [Min, Max]
type OutOfRangeError struct {
	Query float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("query %g outside table range [%g, %g]", e.Query, e.Min, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }
