package domain

import (
	"errors"
	"fmt"
)

// Caller-facing error taxonomy. Handlers map these to HTTP status codes;
// anything not wrapping one of them is treated as an infrastructure failure.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrForbidden              = errors.New("forbidden")
	ErrAccountDisabled        = errors.New("account is deactivated")
	ErrInsufficientQuantity   = errors.New("insufficient quantity available")
	ErrResourceInUse          = errors.New("resource is currently checked out")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrDuplicateKey           = errors.New("duplicate value for unique field")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
