package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxNameLength bounds first and last names, in characters.
	MaxNameLength = 100

	// MaxPasswordLength is the number of bytes bcrypt actually hashes.
	MaxPasswordLength = 72

	// MaxEmailLength follows the RFC 5321 path limit.
	MaxEmailLength = 254
)

// Account is a registered marketplace user.
// The password is only ever held as a bcrypt hash.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Emails are stored and looked up in this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration is the input needed to open an account.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Normalize returns a copy with the email normalised and names trimmed.
func (r Registration) Normalize() Registration {
	r.Email = NormalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return r
}

// Validate checks the registration input. Call it on a normalised value.
func (r Registration) Validate() error {
	var fe fieldErrors
	validateEmail(&fe, r.Email)

	switch {
	case r.Password == "":
		fe.add("password", "is required")
	case len(r.Password) > MaxPasswordLength:
		fe.add("password", "must be at most 72 bytes")
	}

	validateName(&fe, "firstName", r.FirstName)
	validateName(&fe, "lastName", r.LastName)

	return fe.err()
}

// NewAccount builds an account from a validated registration and a password hash.
// The ID is left unset; the store assigns it on insert.
func NewAccount(r Registration, passwordHash string, now time.Time) *Account {
	now = now.UTC()
	return &Account{
		Email:        r.Email,
		PasswordHash: passwordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ProfilePatch holds the mutable profile fields of an account.
// Nil fields are left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
}

// Normalize returns a copy with set fields trimmed.
func (p ProfilePatch) Normalize() ProfilePatch {
	if p.FirstName != nil {
		v := strings.TrimSpace(*p.FirstName)
		p.FirstName = &v
	}
	if p.LastName != nil {
		v := strings.TrimSpace(*p.LastName)
		p.LastName = &v
	}
	return p
}

// Validate requires at least one field, and each set field to be non-empty
// and within MaxNameLength.
func (p ProfilePatch) Validate() error {
	var fe fieldErrors
	if p.FirstName == nil && p.LastName == nil {
		fe.add("body", "at least one of firstName or lastName is required")
		return fe.err()
	}
	if p.FirstName != nil {
		validateName(&fe, "firstName", *p.FirstName)
	}
	if p.LastName != nil {
		validateName(&fe, "lastName", *p.LastName)
	}
	return fe.err()
}

func validateEmail(fe *fieldErrors, email string) {
	if email == "" {
		fe.add("email", "is required")
		return
	}
	if len(email) > MaxEmailLength {
		fe.add("email", "is too long")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		fe.add("email", ErrInvalidEmail.Error())
	}
}

func validateName(fe *fieldErrors, field, value string) {
	if value == "" {
		fe.add(field, "must not be empty")
		return
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		fe.add(field, "must be at most 100 characters")
	}
}
