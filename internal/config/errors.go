package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration operations.
var (
	// ErrConfigNotFound indicates the project has no config file yet.
	ErrConfigNotFound = errors.New("config: project config file not found")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownKey indicates the config file contains a key outside
	// the canonical schema.
	ErrUnknownKey = errors.New("config: unknown configuration key")

	// ErrMissingKey indicates a canonical key is absent from the file.
	ErrMissingKey = errors.New("config: missing configuration key")

	// ErrInvalidYAML indicates the config file is not valid YAML.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")
)

// ValidationError is a single validation failure with field context.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error // underlying sentinel for errors.Is support
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("config field %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("config field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors aggregates every validation failure found in one
// pass, so a broken config reports all its problems at once.
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("config validation failed with %d error(s): %s",
		len(e.Errors), strings.Join(msgs, "; "))
}

// Is supports errors.Is by checking contained errors against the target.
func (e *ValidationErrors) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}
	for _, ve := range e.Errors {
		if ve.Wrapped != nil && errors.Is(ve.Wrapped, target) {
			return true
		}
	}
	return false
}
