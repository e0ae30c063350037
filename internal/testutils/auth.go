package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is a dedicated test-only secret for signing JWTs.
// This must never be used in production.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// NewTestJWTService returns a real JWT service signing with TestJWTSecret.
// A nil now uses time.Now.
func NewTestJWTService(t *testing.T, now func() time.Time) auth.JWTService {
	t.Helper()
	if now == nil {
		now = time.Now
	}
	svc, err := auth.NewJWTServiceWithClock(TestJWTSecret, now)
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// BearerHeader returns an Authorization header value carrying a fresh token
// for accountID.
func BearerHeader(t *testing.T, svc auth.JWTService, accountID uuid.UUID) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), accountID)
	require.NoError(t, err, "Failed to generate test token")
	return "Bearer " + token
}
