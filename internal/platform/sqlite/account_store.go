package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/platform/logger"
	"github.com/phrazzld/secondchance-api/internal/store"
)

const accountColumns = `id, email, password_hash, first_name, last_name, created_at, updated_at`

// AccountStore implements store.AccountStore on SQLite.
type AccountStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewAccountStore creates a SQLite account store.
// If logger is nil, a default logger will be used.
func NewAccountStore(db store.DBTX, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
		now:    time.Now,
	}
}

var _ store.AccountStore = (*AccountStore)(nil)

// GetByEmail implements store.AccountStore.GetByEmail
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getOne(ctx, "get_by_email", `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

// GetByID implements store.AccountStore.GetByID
func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx, "get_by_id", `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id.String())
}

func (s *AccountStore) getOne(ctx context.Context, op, query string, arg any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		err = MapError(err, store.ErrAccountNotFound)
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, err
		}
		log.Error("failed to load account", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", op, "query failed", err)
	}
	return account, nil
}

// Insert implements store.AccountStore.Insert
func (s *AccountStore) Insert(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		toNanos(account.CreatedAt),
		toNanos(account.UpdatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		err = MapError(err, nil)
		log.Error("failed to insert account", slog.String("error", err.Error()))
		return store.NewStoreError("account", "insert", "insert failed", err)
	}

	account.ID = id
	log.Info("account created", slog.String("account_id", id.String()))
	return nil
}

// Update implements store.AccountStore.Update
func (s *AccountStore) Update(ctx context.Context, email string, patch domain.ProfilePatch) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := scanAccount(s.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET first_name = COALESCE(?, first_name),
		    last_name  = COALESCE(?, last_name),
		    updated_at = ?
		WHERE email = ?
		RETURNING `+accountColumns,
		patch.FirstName,
		patch.LastName,
		toNanos(s.now()),
		email,
	))
	if err != nil {
		err = MapError(err, store.ErrAccountNotFound)
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, err
		}
		log.Error("failed to update account", slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "update", "update failed", err)
	}

	log.Info("account updated", slog.String("account_id", account.ID.String()))
	return account, nil
}

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var (
		a                    domain.Account
		id                   string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid account id in database: %w", err)
	}
	a.ID = parsed
	a.CreatedAt = fromNanos(createdAt)
	a.UpdatedAt = fromNanos(updatedAt)
	return &a, nil
}
