// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUsernameImmutable  = errors.New("username cannot be changed once set")
	ErrUsernameRequired   = errors.New("username is required")
	ErrProfileIncomplete  = errors.New("seller profile is incomplete")
	ErrNoContactMethod    = errors.New("at least one contact method is required")
	ErrInvalidImage       = errors.New("invalid image file")
	ErrImageTooLarge      = errors.New("image exceeds maximum size")
	ErrTooManyImages      = errors.New("too many images")
	ErrStorageUnavailable = errors.New("object storage is unavailable")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
