package domain

import (
	"errors"
	"strings"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed validation.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from the given field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// JoinValidationErrors merges the fields of every *ValidationError in errs,
// keeping the first message reported for each field. Nil entries are skipped.
// Any other error is returned as is. Returns nil when nothing failed.
func JoinValidationErrors(errs ...error) error {
	var (
		merged []FieldError
		seen   = make(map[string]bool)
	)
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, f := range verr.Fields {
			if seen[f.Field] {
				continue
			}
			seen[f.Field] = true
			merged = append(merged, f)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return NewValidationError(merged...)
}

// fieldErrors accumulates failures while an entity checks its fields.
type fieldErrors []FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return NewValidationError(fe...)
}
