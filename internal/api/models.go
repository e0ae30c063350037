package api

import (
	"github.com/phrazzld/secondchance-api/internal/domain"
)

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"     validate:"required"`
	Password  string `json:"password"  validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
}

func (r RegisterRequest) registration() domain.Registration {
	return domain.Registration{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	AuthToken string `json:"authtoken"`
	Email     string `json:"email"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AuthToken string `json:"authtoken"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// UpdateProfileRequest carries the profile fields to change.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (r UpdateProfileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// UpdateProfileResponse carries the token reissued after a profile update.
type UpdateProfileResponse struct {
	AuthToken string `json:"authtoken"`
}

// CreateItemRequest is the JSON form of a new item. Multipart uploads use
// the same field names.
type CreateItemRequest struct {
	Name        string `json:"name"        validate:"required"`
	Category    string `json:"category"    validate:"required"`
	Condition   string `json:"condition"   validate:"required"`
	PostedBy    string `json:"posted_by"`
	Zipcode     string `json:"zipcode"`
	Description string `json:"description"`
	AgeDays     int    `json:"age_days"    validate:"gte=0"`
}

func (r CreateItemRequest) fields() domain.ItemFields {
	return domain.ItemFields{
		Name:        r.Name,
		Category:    r.Category,
		Condition:   r.Condition,
		PostedBy:    r.PostedBy,
		Zipcode:     r.Zipcode,
		Description: r.Description,
		AgeDays:     r.AgeDays,
	}
}

// UpdateItemRequest carries the mutable item fields. Absent fields are kept.
type UpdateItemRequest struct {
	Category    *string `json:"category"`
	Condition   *string `json:"condition"`
	Description *string `json:"description"`
	AgeDays     *int    `json:"age_days" validate:"omitempty,gte=0"`
}

func (r UpdateItemRequest) patch() domain.ItemPatch {
	return domain.ItemPatch{
		Category:    r.Category,
		Condition:   r.Condition,
		Description: r.Description,
		AgeDays:     r.AgeDays,
	}
}

// Update outcomes reported in UpdateItemResponse.Uploaded.
const (
	UpdateSucceeded = "success"
	UpdateFailed    = "failed"
)

// UpdateItemResponse reports the outcome of an item update.
type UpdateItemResponse struct {
	Uploaded string       `json:"uploaded"`
	Item     *domain.Item `json:"item,omitempty"`
}

// DeleteItemResponse confirms a deletion.
type DeleteItemResponse struct {
	Deleted string `json:"deleted"`
}
