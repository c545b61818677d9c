package records

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrValidation    = errors.New("records: validation failed")
	ErrNotFound      = errors.New("records: not found")
	ErrConflict      = errors.New("records: conflict")
	ErrNotToggleable = errors.New("records: resource has no visibility flag")
)

// ValidationError carries per-field messages for a rejected save.
type ValidationError struct {
	Resource string
	Issues   map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Issues))
	for field := range e.Issues {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Issues[field])
	}
	return fmt.Sprintf("%s: invalid %s", e.Resource, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid converts an ozzo-validation result into a ValidationError. Nil stays
// nil and internal validator failures are returned unchanged.
func Invalid(resource string, err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return err
		}
		return &ValidationError{Resource: resource, Issues: map[string]string{"_": err.Error()}}
	}
	issues := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		if fieldErr != nil {
			issues[field] = fieldErr.Error()
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Resource: resource, Issues: issues}
}

// FieldError builds a single-field ValidationError.
func FieldError(resource, field, message string) error {
	return &ValidationError{Resource: resource, Issues: map[string]string{field: message}}
}

// NotFoundError reports a missing row.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Resource string
	Detail   string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return e.Resource + ": conflict"
	}
	return e.Resource + ": conflict: " + e.Detail
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
