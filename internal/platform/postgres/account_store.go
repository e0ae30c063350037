package postgres

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

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// It accepts a database connection or transaction that is managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
		now:    time.Now,
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// GetByEmail implements store.AccountStore.GetByEmail
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return s.getOne(ctx, "get_by_email", query, email)
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return s.getOne(ctx, "get_by_id", query, id)
}

func (s *PostgresAccountStore) getOne(ctx context.Context, op, query string, arg any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		err = MapError(err, store.ErrAccountNotFound)
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("account not found", slog.String("operation", op))
			return nil, err
		}
		log.Error("failed to load account",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", op, "query failed", err)
	}

	return account, nil
}

// Insert implements store.AccountStore.Insert
// The ID is generated by the database and written back to account.ID.
func (s *PostgresAccountStore) Insert(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO accounts (email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, query,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("account email already registered")
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
func (s *PostgresAccountStore) Update(
	ctx context.Context,
	email string,
	patch domain.ProfilePatch,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE accounts
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    updated_at = $4
		WHERE email = $1
		RETURNING ` + accountColumns

	account, err := scanAccount(s.db.QueryRowContext(ctx, query,
		email,
		patch.FirstName,
		patch.LastName,
		s.now().UTC(),
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
