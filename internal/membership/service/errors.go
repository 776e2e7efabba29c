package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account is deactivated")
	ErrEmailTaken           = errors.New("email already registered")
	ErrTokenInvalid         = errors.New("token is invalid or has expired")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyVerified = errors.New("email is already verified")

	ErrEventNotFound      = errors.New("event not found")
	ErrEventFull          = errors.New("event is at capacity")
	ErrEventClosed        = errors.New("event is not open for attendance")
	ErrRegistrationClosed = errors.New("registration deadline has passed")
	ErrAlreadyAttending   = errors.New("already attending event")
	ErrNotAttending       = errors.New("not attending event")
)

// ValidationError carries per-field failures so the HTTP layer can
// render them under the errors object of the response envelope.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func newValidationError(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}
