package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup.
var (
	// ErrDomain indicates an operation whose result is mathematically undefined
	// for the given input, such as dividing by a zero reference mass.
	ErrDomain = errors.New("dynamo: domain error")

	// ErrEmptySystem indicates a run was requested with no bodies.
	ErrEmptySystem = errors.New("dynamo: empty body sequence")

	// ErrReferenceIndex indicates a reference body outside the body sequence.
	ErrReferenceIndex = errors.New("dynamo: reference body index out of range")

	// ErrInvalidBody indicates a body with non-positive mass or a NaN/Inf component.
	ErrInvalidBody = errors.New("dynamo: invalid body")

	// ErrInvalidConfig indicates a run configuration outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// DomainError reports a domain failure together with the body that caused it.
type DomainError struct {
	Op     string
	Body   string
	Reason string
}

func (e *DomainError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("dynamo: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("dynamo: %s: body %q: %s", e.Op, e.Body, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}
