package config

import "fmt"

// ValidationError indicates one setting has an invalid value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError constructs a validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
