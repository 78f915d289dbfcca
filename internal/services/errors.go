package services

import "errors"

// Define common service errors. Each one is a distinct kind the API layer renders
// with its own status code and message.
var (
	ErrUnauthenticated     = errors.New("sign in required")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrMissingContact      = errors.New("no email address on file")
	ErrAlreadyDecided      = errors.New("already decided")
	ErrVerificationTimeout = errors.New("email verification timed out")
	ErrTransient           = errors.New("temporary failure, please retry")
	ErrConflict            = errors.New("conflict") // e.g., duplicate email
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrBusy                = errors.New("action already in progress")
)

var serviceErrors = []error{
	ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrInvalidInput, ErrMissingContact,
	ErrAlreadyDecided, ErrVerificationTimeout, ErrTransient, ErrConflict, ErrInvalidCredentials, ErrBusy,
}

// IsServiceError reports whether err already carries one of the service error kinds.
func IsServiceError(err error) bool {
	for _, kind := range serviceErrors {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
