package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/secondchance-api/internal/events"
)

// AssetCleanupEventHandler turns item.deleted events that carry an image
// reference into AssetCleanupTasks on the queue.
type AssetCleanupEventHandler struct {
	queue   TaskQueueWriter
	deleter AssetDeleter
	logger  *slog.Logger
}

// NewAssetCleanupEventHandler creates the handler.
func NewAssetCleanupEventHandler(queue TaskQueueWriter, deleter AssetDeleter, logger *slog.Logger) *AssetCleanupEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetCleanupEventHandler{
		queue:   queue,
		deleter: deleter,
		logger:  logger.With("component", "asset_cleanup_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *AssetCleanupEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.ItemDeleted {
		return nil
	}

	var payload events.ItemPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.Image == "" {
		return nil
	}

	t := NewAssetCleanupTask(payload.Image, h.deleter)
	if err := h.queue.Enqueue(t); err != nil {
		return fmt.Errorf("failed to enqueue asset cleanup for item %s: %w", payload.ItemID, err)
	}

	h.logger.Debug("asset cleanup scheduled",
		"task_id", t.ID(),
		"item_id", payload.ItemID,
		"event_id", event.ID)
	return nil
}

// Ensure AssetCleanupEventHandler implements events.EventHandler
var _ events.EventHandler = (*AssetCleanupEventHandler)(nil)
