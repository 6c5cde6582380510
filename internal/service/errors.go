package service

import (
	"errors"
)

// Failure categories every action maps onto. Anything that is none of these
// is an upstream store failure.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrNotFound         = errors.New("not found")
	ErrProfileRequired  = errors.New("please complete your profile first")
	ErrValidation       = errors.New("validation failed")
)

// ValidationError carries a user-facing reason and matches ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsUserFacing reports whether err's message can be shown as is.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrNotAuthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProfileRequired) ||
		errors.Is(err, ErrValidation)
}
