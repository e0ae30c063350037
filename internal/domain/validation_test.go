package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinValidationErrors(t *testing.T) {
	first := NewValidationError(
		FieldError{Field: "password", Message: "is required"},
		FieldError{Field: "email", Message: "must be a valid email address"},
	)
	second := NewValidationError(
		FieldError{Field: "email", Message: "invalid email format"},
		FieldError{Field: "firstName", Message: "must not be empty"},
	)

	err := JoinValidationErrors(first, nil, fmt.Errorf("wrapped: %w", second))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{
		{Field: "password", Message: "is required"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "firstName", Message: "must not be empty"},
	}, verr.Fields)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinValidationErrors_NothingToJoin(t *testing.T) {
	assert.NoError(t, JoinValidationErrors())
	assert.NoError(t, JoinValidationErrors(nil, nil))
}

func TestJoinValidationErrors_PassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("decoder failed")

	err := JoinValidationErrors(NewValidationError(FieldError{Field: "name", Message: "is required"}), boom)

	assert.Same(t, boom, err)
}
