package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared across services and handlers. Every failure in
// this system resolves to one of these categories; none is fatal to the
// process. Check with errors.Is, wrap with the New* helpers.
var (
	// ErrValidation marks bad user input. Recoverable; surfaced inline.
	ErrValidation = errors.New("validation failed")
	// ErrAuthFailure marks credential rejection by the auth provider. It
	// never changes the current user.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrProfileUnavailable marks a profile fetch/create failure after a
	// successful authentication. Treated as a full auth failure: the
	// current user is cleared.
	ErrProfileUnavailable = errors.New("profile unavailable")
	// ErrForbidden marks a non-admin caller reaching an admin surface.
	ErrForbidden = errors.New("forbidden")
	// ErrWriteFailed marks a data-layer write failure. Retryable; the
	// caller's input is preserved for resubmission.
	ErrWriteFailed = errors.New("write failed")
)

// NewValidationError wraps ErrValidation with a field-level detail message
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewAuthFailure wraps ErrAuthFailure with the human-readable message
// derived from the provider's response.
func NewAuthFailure(message string) error {
	if message == "" {
		message = "invalid credentials"
	}
	return fmt.Errorf("%w: %s", ErrAuthFailure, message)
}
