package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource. Services report absence with a
	// boolean; this sentinel is used by transports and the SDK only.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a write-once key that is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a malformed request at a transport boundary.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable signals that the backing store could not be reached.
	ErrUnavailable = errors.New("service unavailable")

	// ErrRateLimited signals a generation rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrGenerationFailed signals a text-generation provider failure.
	ErrGenerationFailed = errors.New("generation provider error")
	// ErrGenerationTimeout signals that a generation call exceeded its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// UnavailableError wraps a storage failure with ErrUnavailable so callers can
// branch on the class while keeping the cause for diagnostics.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable.Error(), e.Op, e.Err)
}

// Is reports ErrUnavailable so errors.Is works without a second wrap.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func (e *UnavailableError) Unwrap() error { return e.Err }

// Unavailable wraps err as a transient-unavailable failure of op.
// Returns nil for a nil err.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Op: op, Err: err}
}
