package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/secondchance-api/internal/store"
)

// Common service errors. Callers check them with errors.Is; the API layer
// maps each one to a status code.
var (
	// ErrInvalidCredentials indicates a known email with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable indicates the database timed out or could not be reached.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrAssetStore indicates an uploaded image could not be stored.
	ErrAssetStore = errors.New("asset store failure")

	// ErrItemUpdateFailed indicates the item vanished between the existence
	// check and the write of an update.
	ErrItemUpdateFailed = errors.New("item update failed")

	// ErrIdentityMismatch indicates the request names a different account
	// than the one its token was issued for.
	ErrIdentityMismatch = errors.New("request identity does not match token")
)

// classifyStoreError marks timeouts and connectivity failures with
// ErrStoreUnavailable and returns every other error unchanged.
func classifyStoreError(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if store.IsUnavailableError(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

// withQueryTimeout bounds a single store call. A zero timeout leaves ctx as is.
func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
