package domain

import "errors"

// Authentication and registration.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrRoleNotFound       = errors.New("role not found")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
)

// Access guard rejections. Each one is a distinct reason even though the
// first three share the same HTTP status.
var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

// Catalog.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateCode   = errors.New("product code already exists")
	ErrInvalidPrice    = errors.New("price must be a non-negative value")
)

// ValidationError reports malformed, missing or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a *ValidationError carrying msg.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err (or anything it wraps) is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
