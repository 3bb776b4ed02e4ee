package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports malformed or missing input. It matches ErrValidation
// with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfigurationError reports catalog entries a feature depends on that are
// not set up.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: missing %s", strings.Join(e.Missing, ", "))
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
