package store

import (
	"context"
	"time"

	"github.com/phrazzld/secondchance-api/internal/domain"
)

// ItemStore defines the interface for catalog persistence.
// IDs are the canonical decimal strings produced by domain.FormatItemID;
// any other spelling is simply not found.
type ItemStore interface {
	// List returns every item ordered by numeric ID.
	List(ctx context.Context) ([]domain.Item, error)

	// Create assigns the next ID (max existing + 1, starting at 1), persists
	// the item and sets item.ID. Concurrent calls never share an ID.
	// Returns ErrIDAllocation if no ID could be assigned.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID returns ErrItemNotFound if no item has the ID.
	GetByID(ctx context.Context, id string) (*domain.Item, error)

	// Update writes the set fields of patch, the recomputed age in years
	// (when non-nil) and updatedAt in a single statement, returning the
	// post-update item. Returns ErrItemNotFound if no item has the ID.
	Update(ctx context.Context, id string, patch domain.ItemPatch, ageYears *float64, updatedAt time.Time) (*domain.Item, error)

	// Delete removes exactly one item. Returns ErrItemNotFound if none was removed.
	Delete(ctx context.Context, id string) error
}
