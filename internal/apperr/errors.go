// Package apperr defines the error taxonomy shared by every NotesHub layer.
package apperr

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
)

// ValidationError is a recoverable, user-facing rejection of an input.
// Message is the text shown to the user.
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

// Is reports ValidationError as ErrValidation so callers can match the category.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Message returns the user-facing text of a validation error, or the error
// string for anything else.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// FromFieldErrors converts ozzo-validation field errors into a
// ValidationError carrying message. The first failing field (in sorted
// order) is recorded. Errors of any other type are returned unchanged.
func FromFieldErrors(err error, message string) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	field := ""
	if len(fields) > 0 {
		field = fields[0]
	}
	return &ValidationError{Field: field, Message: message}
}
