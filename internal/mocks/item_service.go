package mocks

import (
	"context"

	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/service"
)

// MockItemService implements service.ItemService for testing
type MockItemService struct {
	ListFn   func(ctx context.Context) ([]domain.Item, error)
	CreateFn func(ctx context.Context, fields domain.ItemFields, upload *service.Upload) (*domain.Item, error)
	GetFn    func(ctx context.Context, id string) (*domain.Item, error)
	UpdateFn func(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	DeleteFn func(ctx context.Context, id string) error

	// Default values used when functions aren't explicitly defined
	Items []domain.Item
	Item  *domain.Item
	Err   error
}

// List implements the service.ItemService interface
func (m *MockItemService) List(ctx context.Context) ([]domain.Item, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Items, m.Err
}

// Create implements the service.ItemService interface
func (m *MockItemService) Create(
	ctx context.Context,
	fields domain.ItemFields,
	upload *service.Upload,
) (*domain.Item, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, fields, upload)
	}
	return m.Item, m.Err
}

// Get implements the service.ItemService interface
func (m *MockItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Item, m.Err
}

// Update implements the service.ItemService interface
func (m *MockItemService) Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	return m.Item, m.Err
}

// Delete implements the service.ItemService interface
func (m *MockItemService) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

var _ service.ItemService = (*MockItemService)(nil)
