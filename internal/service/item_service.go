package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/events"
	"github.com/phrazzld/secondchance-api/internal/platform/logger"
	"github.com/phrazzld/secondchance-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// AssetStore persists uploaded images and returns the reference recorded
// in the item's image field.
type AssetStore interface {
	// Save stores body under a unique name derived from filename.
	// Content that is not an accepted image yields a *domain.ValidationError.
	Save(ctx context.Context, filename string, body io.Reader) (string, error)

	// Delete removes the asset behind ref.
	Delete(ctx context.Context, ref string) error
}

// Upload is an image submitted together with a new item.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ItemService provides the catalog operations.
type ItemService interface {
	// List returns every item ordered by ID.
	List(ctx context.Context) ([]domain.Item, error)

	// Create validates fields, stores the optional upload and persists the item
	// under the next free ID.
	Create(ctx context.Context, fields domain.ItemFields, upload *Upload) (*domain.Item, error)

	// Get returns store.ErrItemNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*domain.Item, error)

	// Update applies patch and returns the stored item. Returns
	// store.ErrItemNotFound for unknown IDs and ErrItemUpdateFailed when the
	// item is deleted while the update is in flight.
	Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)

	// Delete removes the item. Returns store.ErrItemNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// ItemServiceConfig holds the collaborators of the item service.
type ItemServiceConfig struct {
	Store        store.ItemStore
	Assets       AssetStore
	Events       events.EventEmitter
	QueryTimeout time.Duration
	Logger       *slog.Logger
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

type itemServiceImpl struct {
	store        store.ItemStore
	assets       AssetStore
	events       events.EventEmitter
	queryTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewItemService creates a new ItemService. Assets and Events are optional;
// without an asset store, uploads are rejected.
func NewItemService(cfg ItemServiceConfig) (ItemService, error) {
	if cfg.Store == nil {
		return nil, errors.New("item store cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &itemServiceImpl{
		store:        cfg.Store,
		assets:       cfg.Assets,
		events:       cfg.Events,
		queryTimeout: cfg.QueryTimeout,
		logger:       log.With(slog.String("component", "item_service")),
		now:          now,
	}, nil
}

// List implements ItemService.List
func (s *itemServiceImpl) List(ctx context.Context) ([]domain.Item, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ItemService.List")
	defer span.End()

	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	defer cancel()

	items, err := s.store.List(qctx)
	if err != nil {
		err = classifyStoreError(err)
		recordError(span, err)
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list items", "error", err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	span.SetAttributes(attribute.Int("item.count", len(items)))
	return items, nil
}

// Create implements ItemService.Create
func (s *itemServiceImpl) Create(ctx context.Context, fields domain.ItemFields, upload *Upload) (*domain.Item, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ItemService.Create")
	defer span.End()
	log := logger.FromContextOrDefault(ctx, s.logger)

	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var image string
	if upload != nil {
		ref, err := s.saveUpload(ctx, upload)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
		image = ref
	}

	item := domain.NewItem(fields, image, s.now())

	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	err := s.store.Create(qctx, item)
	cancel()
	if err != nil {
		err = classifyStoreError(err)
		recordError(span, err)
		log.Error("failed to create item", "error", err)
		if image != "" {
			s.discardAsset(ctx, image)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	span.SetAttributes(attribute.String("item.id", item.ID))
	log.Info("item created", "item_id", item.ID, "has_image", image != "")
	s.emit(ctx, events.ItemCreated, item)

	return item, nil
}

// Get implements ItemService.Get
func (s *itemServiceImpl) Get(ctx context.Context, id string) (*domain.Item, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ItemService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id))

	item, err := s.get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrItemNotFound) {
			recordError(span, err)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// Update implements ItemService.Update
func (s *itemServiceImpl) Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ItemService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id))
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.get(ctx, id); err != nil {
		if !errors.Is(err, store.ErrItemNotFound) {
			recordError(span, err)
		}
		return nil, fmt.Errorf("failed to get item for update: %w", err)
	}

	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	updated, err := s.store.Update(qctx, id, patch, patch.AgeYears(), s.now().UTC())
	cancel()
	if err != nil {
		err = classifyStoreError(err)
		if errors.Is(err, store.ErrItemNotFound) {
			log.Warn("item deleted during update", "item_id", id)
			return nil, fmt.Errorf("%w: %w", ErrItemUpdateFailed, err)
		}
		recordError(span, err)
		log.Error("failed to update item", "error", err, "item_id", id)
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	log.Info("item updated", "item_id", id)
	s.emit(ctx, events.ItemUpdated, updated)

	return updated, nil
}

// Delete implements ItemService.Delete
func (s *itemServiceImpl) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ItemService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id))
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrItemNotFound) {
			recordError(span, err)
		}
		return fmt.Errorf("failed to get item for delete: %w", err)
	}

	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	err = s.store.Delete(qctx, id)
	cancel()
	if err != nil {
		err = classifyStoreError(err)
		if !errors.Is(err, store.ErrItemNotFound) {
			recordError(span, err)
			log.Error("failed to delete item", "error", err, "item_id", id)
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	log.Info("item deleted", "item_id", id)
	s.emit(ctx, events.ItemDeleted, item)

	return nil
}

func (s *itemServiceImpl) get(ctx context.Context, id string) (*domain.Item, error) {
	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	defer cancel()
	item, err := s.store.GetByID(qctx, id)
	return item, classifyStoreError(err)
}

func (s *itemServiceImpl) saveUpload(ctx context.Context, upload *Upload) (string, error) {
	if s.assets == nil {
		return "", fmt.Errorf("%w: no asset store configured", ErrAssetStore)
	}

	ref, err := s.assets.Save(ctx, upload.Filename, upload.Body)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return "", err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to store upload", "error", err)
		return "", fmt.Errorf("%w: %w", ErrAssetStore, err)
	}
	return ref, nil
}

// discardAsset removes an asset whose item was never persisted. It runs even
// if the request context has already been cancelled.
func (s *itemServiceImpl) discardAsset(ctx context.Context, ref string) {
	if err := s.assets.Delete(context.WithoutCancel(ctx), ref); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to remove orphaned asset",
			"error", err,
			"image", ref)
	}
}

func (s *itemServiceImpl) emit(ctx context.Context, eventType string, item *domain.Item) {
	if s.events == nil {
		return
	}

	event, err := events.NewEvent(eventType, events.ItemPayload{ItemID: item.ID, Image: item.Image})
	if err != nil {
		s.logger.Error("failed to build event", "error", err, "event_type", eventType)
		return
	}
	if err := s.events.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("event handler failed",
			"error", err,
			"event_type", eventType,
			"item_id", item.ID)
	}
}

// Ensure itemServiceImpl implements ItemService
var _ ItemService = (*itemServiceImpl)(nil)
