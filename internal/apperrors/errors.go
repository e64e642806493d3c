package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel domain errors. Handlers never branch on storage errors directly;
// services translate them into one of these and the central HTTP error
// handler maps each to a status code.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("invalid or missing token")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrOutOfStock         = errors.New("out of stock")
)

// Validationf wraps ErrValidation with a field-level reason so callers can
// still match with errors.Is(err, ErrValidation).
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
