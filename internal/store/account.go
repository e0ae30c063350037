package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
)

// AccountStore defines the interface for account persistence.
// Emails passed in are expected to be normalised with domain.NormalizeEmail.
type AccountStore interface {
	// GetByEmail returns ErrAccountNotFound if no account has the email.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByID returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// Insert persists a new account and sets account.ID.
	// Returns ErrEmailExists if the email is already registered.
	Insert(ctx context.Context, account *domain.Account) error

	// Update merges the patch into the account with the given email, stamps
	// updatedAt and returns the stored result. Only first and last name are
	// ever written. Returns ErrAccountNotFound if no account has the email.
	Update(ctx context.Context, email string, patch domain.ProfilePatch) (*domain.Account, error)
}
