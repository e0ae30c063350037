package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AssetDeleter removes a stored asset by the reference it was saved under.
type AssetDeleter interface {
	Delete(ctx context.Context, ref string) error
}

// AssetCleanupTask deletes the stored image of a removed item.
type AssetCleanupTask struct {
	id      uuid.UUID
	ref     string
	deleter AssetDeleter
}

// NewAssetCleanupTask creates a cleanup task for ref.
func NewAssetCleanupTask(ref string, deleter AssetDeleter) *AssetCleanupTask {
	return &AssetCleanupTask{
		id:      uuid.New(),
		ref:     ref,
		deleter: deleter,
	}
}

// ID implements Task.
func (t *AssetCleanupTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *AssetCleanupTask) Type() string { return TaskTypeAssetCleanup }

// Ref returns the asset reference to delete.
func (t *AssetCleanupTask) Ref() string { return t.ref }

// Execute implements Task.
func (t *AssetCleanupTask) Execute(ctx context.Context) error {
	if err := t.deleter.Delete(ctx, t.ref); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

var _ Task = (*AssetCleanupTask)(nil)
