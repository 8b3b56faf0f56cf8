package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for lookup parameters.
var (
	ErrMissingParam  = errors.New("missing parameter")
	ErrInvalidMakeID = errors.New("invalid make id")
	ErrInvalidYear   = errors.New("invalid model year")
	ErrUnknownMake   = errors.New("unknown make")
)

// ValidationError wraps a sentinel with context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

// UnknownMakeError is returned by ResolveMake when nothing matches the query.
// Suggestions holds the closest make names, best first.
type UnknownMakeError struct {
	Query       string
	Suggestions []string
}

func (e *UnknownMakeError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s %q", ErrUnknownMake, e.Query)
	}
	return fmt.Sprintf("%s %q (did you mean %s?)", ErrUnknownMake, e.Query, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownMakeError) Unwrap() error { return ErrUnknownMake }
