// internal/common/utils/errors.go

package utils

import (
	"errors"
	"fmt"
)

// ValidationError is a caller-fixable input error. It is the only error
// class that request handlers surface directly; everything else degrades
// to a safe response.
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

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InconsistencyError flags an internal invariant violation (asymmetric
// similarity pair, negative weight). It signals a bug, not bad input.
type InconsistencyError struct {
	Message string
}

func (e *InconsistencyError) Error() string {
	return "internal inconsistency: " + e.Message
}
