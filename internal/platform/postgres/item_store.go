package postgres

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

// itemIDLockKey identifies the advisory lock that serialises ID allocation.
const itemIDLockKey int64 = 0x5ec0_11d5

const itemColumns = `id, name, category, condition, posted_by, zipcode, description,
	age_days, age_years, image, date_added, updated_at`

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
// It needs a *sql.DB rather than a transaction because Create opens its own.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db *sql.DB, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// List implements store.ItemStore.List
func (s *PostgresItemStore) List(ctx context.Context) ([]domain.Item, error) {
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
			log.Error("failed to scan item", slog.String("error", err.Error()))
			return nil, store.NewStoreError("item", "list", "scan failed", MapError(err, nil))
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		err = MapError(err, nil)
		log.Error("error iterating item rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "list", "iteration failed", err)
	}

	log.Debug("listed items", slog.Int("count", len(items)))
	return items, nil
}

// Create implements store.ItemStore.Create
// Allocation holds a transaction-scoped advisory lock so that concurrent
// creators compute max(id)+1 one at a time; the primary key backs this up.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO items (id, name, category, condition, posted_by, zipcode, description,
			age_days, age_years, image, date_added)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		FROM items
		RETURNING id
	`

	var id int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, itemIDLockKey); err != nil {
			return fmt.Errorf("failed to acquire id lock: %w", err)
		}
		return tx.QueryRowContext(ctx, query,
			item.Name,
			item.Category,
			item.Condition,
			item.PostedBy,
			item.Zipcode,
			item.Description,
			item.AgeDays,
			item.AgeYears,
			nullString(item.Image),
			item.DateAdded,
		).Scan(&id)
	})
	if err != nil {
		if IsUniqueViolation(err) {
			log.Error("item id collision despite allocation lock", slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", store.ErrIDAllocation, err)
		}
		err = MapError(err, nil)
		log.Error("failed to create item", slog.String("error", err.Error()))
		return store.NewStoreError("item", "create", "insert failed", err)
	}

	item.ID = domain.FormatItemID(id)
	log.Info("item created", slog.String("item_id", item.ID))
	return nil
}

// GetByID implements store.ItemStore.GetByID
func (s *PostgresItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := domain.ParseItemID(id)
	if err != nil {
		return nil, store.ErrItemNotFound
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, n))
	if err != nil {
		err = MapError(err, store.ErrItemNotFound)
		if errors.Is(err, store.ErrItemNotFound) {
			log.Debug("item not found", slog.String("item_id", id))
			return nil, err
		}
		log.Error("failed to get item", slog.String("item_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "get", "query failed", err)
	}

	return item, nil
}

// Update implements store.ItemStore.Update
func (s *PostgresItemStore) Update(
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

	query := `
		UPDATE items
		SET category    = COALESCE($2, category),
		    condition   = COALESCE($3, condition),
		    description = COALESCE($4, description),
		    age_days    = COALESCE($5, age_days),
		    age_years   = COALESCE($6, age_years),
		    updated_at  = $7
		WHERE id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(s.db.QueryRowContext(ctx, query,
		n,
		patch.Category,
		patch.Condition,
		patch.Description,
		patch.AgeDays,
		ageYears,
		updatedAt.UTC(),
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
func (s *PostgresItemStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := domain.ParseItemID(id)
	if err != nil {
		return store.ErrItemNotFound
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, n)
	if err != nil {
		err = MapError(err, nil)
		log.Error("failed to delete item", slog.String("item_id", id), slog.String("error", err.Error()))
		return store.NewStoreError("item", "delete", "delete failed", err)
	}
	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Info("item deleted", slog.String("item_id", id))
	return nil
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item      domain.Item
		id        int64
		image     sql.NullString
		updatedAt sql.NullTime
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
		ts := updatedAt.Time.UTC()
		item.UpdatedAt = &ts
	}
	return &item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
