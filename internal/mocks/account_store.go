package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// AccountStore is a mock of store.AccountStore for use with testify/mock
type AccountStore struct {
	mock.Mock
}

// GetByEmail is a mock implementation of store.AccountStore.GetByEmail
func (m *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if account, ok := args.Get(0).(*domain.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByID is a mock implementation of store.AccountStore.GetByID
func (m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if account, ok := args.Get(0).(*domain.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

// Insert is a mock implementation of store.AccountStore.Insert.
// A uuid.UUID passed as the second return value is assigned to account.ID.
func (m *AccountStore) Insert(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	if len(args) > 1 {
		if id, ok := args.Get(1).(uuid.UUID); ok {
			account.ID = id
		}
	}
	return args.Error(0)
}

// Update is a mock implementation of store.AccountStore.Update
func (m *AccountStore) Update(ctx context.Context, email string, patch domain.ProfilePatch) (*domain.Account, error) {
	args := m.Called(ctx, email, patch)
	if account, ok := args.Get(0).(*domain.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ store.AccountStore = (*AccountStore)(nil)
