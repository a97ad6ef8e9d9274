package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the service layer. Handlers map them onto HTTP statuses.
var (
	ErrNotFound         = errors.New("file not found")
	ErrPersistence      = errors.New("persistence failure")
	ErrMalformedRequest = errors.New("malformed request")
)

// ValidationError reports a request field that failed validation.
// It matches ErrMalformedRequest with errors.Is.
type ValidationError struct {
	Field string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformedRequest
}
