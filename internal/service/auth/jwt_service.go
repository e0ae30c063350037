package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenLifetime is the fixed validity window of a session token.
const TokenLifetime = time.Hour

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed token embedding the account ID.
	GenerateToken(ctx context.Context, accountID uuid.UUID) (string, error)

	// ValidateToken verifies the signature, algorithm and time claims of the
	// token and returns its claims. Returns ErrExpiredToken once the token is
	// past its expiry and ErrInvalidToken for any other defect.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a session token.
type Claims struct {
	// AccountID is the account the token was issued for.
	AccountID uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
