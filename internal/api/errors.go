package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/secondchance-api/internal/api/shared"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/service"
	"github.com/phrazzld/secondchance-api/internal/service/auth"
	"github.com/phrazzld/secondchance-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrMalformedBody):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrIdentityMismatch):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, shared.ErrMalformedBody):
		return "Invalid request format"

	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrIdentityMismatch):
		return "Request does not match the authenticated account"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable"

	case errors.Is(err, service.ErrAssetStore):
		return "Failed to store image"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. Validation errors list their
// fields; everything else gets the mapped status and a safe message, with
// the redacted detail logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		shared.RespondWithValidationError(w, r, verr)
		return
	}

	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
