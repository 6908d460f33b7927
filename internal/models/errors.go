package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is returned when the store rejects a write on a unique constraint.
	ErrConstraintViolation = errors.New("already exists")
	// ErrUpstream is returned when a third-party call fails or answers with an unexpected shape.
	ErrUpstream = errors.New("upstream error")
)

// FieldError is a single failed rule, reported next to the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rule a candidate entity failed.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

// NewValidationError creates a ValidationError holding one field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any rule failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// ByField groups the messages per field, in rule order.
func (e *ValidationError) ByField() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
