package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/service"
)

// MockAccountService implements service.AccountService for testing
type MockAccountService struct {
	RegisterFn      func(ctx context.Context, reg domain.Registration) (*service.AuthResult, error)
	LoginFn         func(ctx context.Context, email, password string) (*service.AuthResult, error)
	UpdateProfileFn func(ctx context.Context, accountID uuid.UUID, claimedEmail string, patch domain.ProfilePatch) (*service.AuthResult, error)

	// Default values used when functions aren't explicitly defined
	Result *service.AuthResult
	Err    error
}

// Register implements the service.AccountService interface
func (m *MockAccountService) Register(ctx context.Context, reg domain.Registration) (*service.AuthResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, reg)
	}
	return m.Result, m.Err
}

// Login implements the service.AccountService interface
func (m *MockAccountService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return m.Result, m.Err
}

// UpdateProfile implements the service.AccountService interface
func (m *MockAccountService) UpdateProfile(
	ctx context.Context,
	accountID uuid.UUID,
	claimedEmail string,
	patch domain.ProfilePatch,
) (*service.AuthResult, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, accountID, claimedEmail, patch)
	}
	return m.Result, m.Err
}

var _ service.AccountService = (*MockAccountService)(nil)
