// Package apperr carries the error taxonomy shared by the classification,
// ledger, code-generation and activity-log components. Handlers map these to
// HTTP statuses; nothing below the handler layer knows about transport.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input with field-level detail. It is a
// caller fault and is never logged as a server error.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// NotFoundError marks an unknown asset, category or user id.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError marks a transient contention failure (code-generation retry
// budget exhausted, concurrent edit races). Callers may retry the request.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func Conflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// DependencyError wraps storage faults. It is surfaced to callers generically
// and is the only class eligible for caller-side retry of the whole request.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: dependency failure: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func Dependency(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsDependency(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
