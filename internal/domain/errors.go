package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is wrapped by ValidationError, which carries per-field detail.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an item ID is not the canonical decimal
	// form of a positive integer.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")
)
