package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/secondchance-api/internal/domain"
)

// Global validator instance for reuse. Field names in its errors are the
// JSON names of the request struct.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ErrMalformedBody is wrapped by DecodeJSON for bodies that are not a
// single JSON object matching the target struct.
var ErrMalformedBody = errors.New("malformed request body")

// DecodeJSON decodes a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrMalformedBody)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package and
// merges the outcome of the domain checks into it, so the client sees every
// failing field at once. Failures are reported as a *domain.ValidationError.
func ValidateRequest(v interface{}, checks ...error) error {
	var tagErr error
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{
				Field:   fe.Field(),
				Message: tagMessage(fe),
			})
		}
		tagErr = domain.NewValidationError(fields...)
	}

	return domain.JoinValidationErrors(append([]error{tagErr}, checks...)...)
}

// tagMessage maps validation tags to user-friendly error messages
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
