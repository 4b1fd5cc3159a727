package model

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with the given message.
func Validation(msg string) error { return &ValidationError{Msg: msg} }

// DomainError reports a business-rule violation: booking a past event,
// exceeding capacity, or deleting an event that still has bookings.
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return e.Msg }

// Domain builds a DomainError with the given message.
func Domain(msg string) error { return &DomainError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDomain reports whether err is a DomainError.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
