package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/platform/logger"
	"github.com/phrazzld/secondchance-api/internal/service/auth"
	"github.com/phrazzld/secondchance-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/secondchance-api/internal/service"

// AuthResult is returned by operations that issue a session token.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

// PasswordManager hashes new passwords and checks presented ones.
type PasswordManager interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// AccountService provides registration, login and profile updates.
type AccountService interface {
	// Register creates an account and returns a token for it.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, reg domain.Registration) (*AuthResult, error)

	// Login checks the credentials and returns a fresh token.
	// Returns store.ErrAccountNotFound for an unknown email and
	// ErrInvalidCredentials for a wrong password.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// UpdateProfile applies patch to the account the token was issued for.
	// A non-empty claimedEmail must match that account's email.
	UpdateProfile(ctx context.Context, accountID uuid.UUID, claimedEmail string, patch domain.ProfilePatch) (*AuthResult, error)
}

// AccountServiceConfig holds the collaborators of the account service.
type AccountServiceConfig struct {
	Store        store.AccountStore
	Passwords    PasswordManager
	Tokens       auth.JWTService
	QueryTimeout time.Duration
	Logger       *slog.Logger
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

type accountServiceImpl struct {
	store        store.AccountStore
	passwords    PasswordManager
	tokens       auth.JWTService
	queryTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewAccountService creates a new AccountService.
// It returns an error if any of the required dependencies are nil.
func NewAccountService(cfg AccountServiceConfig) (AccountService, error) {
	if cfg.Store == nil {
		return nil, errors.New("account store cannot be nil")
	}
	if cfg.Passwords == nil {
		return nil, errors.New("password manager cannot be nil")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("jwt service cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &accountServiceImpl{
		store:        cfg.Store,
		passwords:    cfg.Passwords,
		tokens:       cfg.Tokens,
		queryTimeout: cfg.QueryTimeout,
		logger:       log.With(slog.String("component", "account_service")),
		now:          now,
	}, nil
}

// Register implements AccountService.Register
func (s *accountServiceImpl) Register(ctx context.Context, reg domain.Registration) (*AuthResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AccountService.Register")
	defer span.End()
	log := logger.FromContextOrDefault(ctx, s.logger)

	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.getByEmail(ctx, reg.Email); err == nil {
		log.Debug("registration rejected, email already registered")
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrAccountNotFound) {
		recordError(span, err)
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := s.passwords.Hash(reg.Password)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := domain.NewAccount(reg, hash, s.now())

	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	err = s.store.Insert(qctx, account)
	cancel()
	if err != nil {
		err = classifyStoreError(err)
		if !errors.Is(err, store.ErrEmailExists) {
			log.Error("failed to insert account", "error", err)
			recordError(span, err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, account.ID)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	span.SetAttributes(attribute.String("account.id", account.ID.String()))
	log.Info("account registered", "account_id", account.ID)

	return &AuthResult{Token: token, Account: account}, nil
}

// unknownAccountHash is a bcrypt hash at the default cost that no account owns.
const unknownAccountHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Login implements AccountService.Login
func (s *accountServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AccountService.Login")
	defer span.End()
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := s.getByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			// Unknown emails pay for a hash comparison too.
			_ = s.passwords.Compare(unknownAccountHash, password)
		} else {
			recordError(span, err)
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := s.passwords.Compare(account.PasswordHash, password); err != nil {
		log.Debug("login rejected, password mismatch", "account_id", account.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, account.ID)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	span.SetAttributes(attribute.String("account.id", account.ID.String()))
	log.Debug("login succeeded", "account_id", account.ID)

	return &AuthResult{Token: token, Account: account}, nil
}

// UpdateProfile implements AccountService.UpdateProfile
func (s *accountServiceImpl) UpdateProfile(
	ctx context.Context,
	accountID uuid.UUID,
	claimedEmail string,
	patch domain.ProfilePatch,
) (*AuthResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AccountService.UpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID.String()))
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	account, err := s.store.GetByID(qctx, accountID)
	cancel()
	if err != nil {
		err = classifyStoreError(err)
		if !errors.Is(err, store.ErrAccountNotFound) {
			recordError(span, err)
		}
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	if claimedEmail != "" && domain.NormalizeEmail(claimedEmail) != account.Email {
		log.Warn("profile update rejected, email header does not match token",
			"account_id", accountID)
		return nil, ErrIdentityMismatch
	}

	qctx, cancel = withQueryTimeout(ctx, s.queryTimeout)
	updated, err := s.store.Update(qctx, account.Email, patch)
	cancel()
	if err != nil {
		err = classifyStoreError(err)
		if !errors.Is(err, store.ErrAccountNotFound) {
			log.Error("failed to update account", "error", err, "account_id", accountID)
			recordError(span, err)
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, updated.ID)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("account profile updated", "account_id", updated.ID)
	return &AuthResult{Token: token, Account: updated}, nil
}

func (s *accountServiceImpl) getByEmail(ctx context.Context, email string) (*domain.Account, error) {
	qctx, cancel := withQueryTimeout(ctx, s.queryTimeout)
	defer cancel()
	account, err := s.store.GetByEmail(qctx, email)
	return account, classifyStoreError(err)
}

// Ensure accountServiceImpl implements AccountService
var _ AccountService = (*accountServiceImpl)(nil)

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
