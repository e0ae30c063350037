package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// ItemStore is a mock of store.ItemStore for use with testify/mock
type ItemStore struct {
	mock.Mock
}

// List is a mock implementation of store.ItemStore.List
func (m *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]domain.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.ItemStore.Create.
// A string passed as the second return value is assigned to item.ID.
func (m *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	if len(args) > 1 {
		if id, ok := args.Get(1).(string); ok {
			item.ID = id
		}
	}
	return args.Error(0)
}

// GetByID is a mock implementation of store.ItemStore.GetByID
func (m *ItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*domain.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.ItemStore.Update
func (m *ItemStore) Update(
	ctx context.Context,
	id string,
	patch domain.ItemPatch,
	ageYears *float64,
	updatedAt time.Time,
) (*domain.Item, error) {
	args := m.Called(ctx, id, patch, ageYears, updatedAt)
	if item, ok := args.Get(0).(*domain.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete is a mock implementation of store.ItemStore.Delete
func (m *ItemStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ store.ItemStore = (*ItemStore)(nil)
