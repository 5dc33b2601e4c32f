package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the profile name is unknown or its stored document
	// cannot be parsed.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateName indicates a create collided with an existing profile.
	ErrDuplicateName = errors.New("profile already exists")
	// ErrInvalidName indicates a profile name with unsafe characters.
	ErrInvalidName = errors.New("invalid profile name")
	// ErrValidation indicates a profile failed validation.
	ErrValidation = errors.New("profile validation failed")
	// ErrPersistence indicates the underlying store failed to read or write.
	ErrPersistence = errors.New("profile store failure")
)

// ValidationError lists every rule a profile violates.
type ValidationError struct {
	Problems []string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Problems[0])
	}
	return fmt.Sprintf("%s:\n  - %s", ErrValidation, strings.Join(e.Problems, "\n  - "))
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Problems returns the validation problems carried by err, if any.
func Problems(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}
