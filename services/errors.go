package services

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidDiscountCode = errors.New("invalid discount code")
	ErrCheckoutSettled     = errors.New("checkout already settled")
)

// ValidationError is a recoverable input problem whose Message is shown to
// the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
