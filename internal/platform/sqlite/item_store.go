package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/platform/logger"
	"github.com/phrazzld/secondchance-api/internal/store"
)

// maxAllocAttempts bounds retries after a primary key conflict on create.
const maxAllocAttempts = 3

const itemColumns = `id, name, category, condition, posted_by, zipcode, description,
	age_days, age_years, image, date_added, updated_at`

// ItemStore implements store.ItemStore on SQLite.
type ItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewItemStore creates a SQLite item store.
// If logger is nil, a default logger will be used.
func NewItemStore(db store.DBTX, logger *slog.Logger) *ItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

var _ store.ItemStore = (*ItemStore)(nil)

// List implements store.ItemStore.List
func (s *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		err = MapError(err, nil)
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, store.NewStoreError("item", "list", "scan failed", MapError(err, nil))
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("item", "list", "iteration failed", MapError(err, nil))
	}
	return items, nil
}

// Create implements store.ItemStore.Create
// The next ID is computed inside the INSERT itself, which SQLite runs under
// its single writer lock; a primary key conflict is retried.
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO items (id, name, category, condition, posted_by, zipcode, description,
			age_days, age_years, image, date_added)
		SELECT COALESCE(MAX(id), 0) + 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM items
		RETURNING id`

	var lastErr error
	for attempt := 1; attempt <= maxAllocAttempts; attempt++ {
		var id int64
		err := s.db.QueryRowContext(ctx, query,
			item.Name,
			item.Category,
			item.Condition,
			item.PostedBy,
			item.Zipcode,
			item.Description,
			item.AgeDays,
			item.AgeYears,
			sql.NullString{String: item.Image, Valid: item.Image != ""},
			item.DateAdded,
		).Scan(&id)
		if err == nil {
			item.ID = domain.FormatItemID(id)
			log.Info("item created", slog.String("item_id", item.ID))
			return nil
		}
		if !IsPrimaryKeyViolation(err) {
			err = MapError(err, nil)
			log.Error("failed to create item", slog.String("error", err.Error()))
			return store.NewStoreError("item", "create", "insert failed", err)
		}
		lastErr = err
		log.Warn("item id conflict, retrying", slog.Int("attempt", attempt))
	}

	return fmt.Errorf("%w after %d attempts: %v", store.ErrIDAllocation, maxAllocAttempts, lastErr)
}

// GetByID implements store.ItemStore.GetByID
func (s *ItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := domain.ParseItemID(id)
	if err != nil {
		return nil, store.ErrItemNotFound
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, n))
	if err != nil {
		err = MapError(err, store.ErrItemNotFound)
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, err
		}
		log.Error("failed to get item", slog.String("item_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "get", "query failed", err)
	}
	return item, nil
}

// Update implements store.ItemStore.Update
func (s *ItemStore) Update(
	ctx context.Context,
	id string,
	patch domain.ItemPatch,
	ageYears *float64,
	updatedAt time.Time,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := domain.ParseItemID(id)
	if err != nil {
		return nil, store.ErrItemNotFound
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, `
		UPDATE items
		SET category    = COALESCE(?, category),
		    condition   = COALESCE(?, condition),
		    description = COALESCE(?, description),
		    age_days    = COALESCE(?, age_days),
		    age_years   = COALESCE(?, age_years),
		    updated_at  = ?
		WHERE id = ?
		RETURNING `+itemColumns,
		patch.Category,
		patch.Condition,
		patch.Description,
		patch.AgeDays,
		ageYears,
		toNanos(updatedAt),
		n,
	))
	if err != nil {
		err = MapError(err, store.ErrItemNotFound)
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, err
		}
		log.Error("failed to update item", slog.String("item_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "update", "update failed", err)
	}

	log.Info("item updated", slog.String("item_id", id))
	return item, nil
}

// Delete implements store.ItemStore.Delete
func (s *ItemStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := domain.ParseItemID(id)
	if err != nil {
		return store.ErrItemNotFound
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, n)
	if err != nil {
		err = MapError(err, nil)
		log.Error("failed to delete item", slog.String("item_id", id), slog.String("error", err.Error()))
		return store.NewStoreError("item", "delete", "delete failed", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("item", "delete", "rows affected", err)
	}
	if affected == 0 {
		return store.ErrItemNotFound
	}

	log.Info("item deleted", slog.String("item_id", id))
	return nil
}

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	var (
		item      domain.Item
		id        int64
		image     sql.NullString
		updatedAt sql.NullInt64
	)
	if err := row.Scan(
		&id,
		&item.Name,
		&item.Category,
		&item.Condition,
		&item.PostedBy,
		&item.Zipcode,
		&item.Description,
		&item.AgeDays,
		&item.AgeYears,
		&image,
		&item.DateAdded,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	item.ID = domain.FormatItemID(id)
	item.Image = image.String
	if updatedAt.Valid {
		ts := fromNanos(updatedAt.Int64)
		item.UpdatedAt = &ts
	}
	return &item, nil
}
