package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/mocks"
	"github.com/phrazzld/secondchance-api/internal/service"
	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccountService(
	t *testing.T,
	accounts *mocks.AccountStore,
	passwords *mocks.MockPasswordManager,
) service.AccountService {
	t.Helper()
	svc, err := service.NewAccountService(service.AccountServiceConfig{
		Store:        accounts,
		Passwords:    passwords,
		Tokens:       &mocks.MockJWTService{Token: "signed-token"},
		QueryTimeout: time.Second,
		Logger:       quietLogger(),
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func validRegistration() domain.Registration {
	return domain.Registration{
		Email:     "  Jane@Example.com ",
		Password:  "correct horse",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestNewAccountService_RequiresDependencies(t *testing.T) {
	_, err := service.NewAccountService(service.AccountServiceConfig{})
	assert.Error(t, err)
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		passwords := &mocks.MockPasswordManager{}
		id := uuid.New()

		accounts.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, store.ErrAccountNotFound)
		accounts.On("Insert", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.Email == "jane@example.com" &&
				a.PasswordHash == "hashed:correct horse" &&
				a.FirstName == "Jane" &&
				a.CreatedAt.Equal(fixedNow)
		})).Return(nil, id)

		result, err := newAccountService(t, accounts, passwords).Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.Equal(t, "signed-token", result.Token)
		assert.Equal(t, id, result.Account.ID)
		assert.Equal(t, "jane@example.com", result.Account.Email)
		assert.Equal(t, 1, passwords.HashCallCount)
		accounts.AssertExpectations(t)
	})

	t.Run("duplicate email found up front", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, "jane@example.com").
			Return(&domain.Account{ID: uuid.New(), Email: "jane@example.com"}, nil)
		passwords := &mocks.MockPasswordManager{}

		_, err := newAccountService(t, accounts, passwords).Register(ctx, validRegistration())
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.Zero(t, passwords.HashCallCount)
		accounts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email lost race", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrAccountNotFound)
		accounts.On("Insert", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).Register(ctx, validRegistration())
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("validation error", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		reg := validRegistration()
		reg.Email = "not-an-email"
		reg.LastName = ""

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).Register(ctx, reg)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
		accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("store unavailable", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).Register(ctx, validRegistration())
		assert.ErrorIs(t, err, service.ErrStoreUnavailable)
	})

	t.Run("hash failure", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrAccountNotFound)
		passwords := &mocks.MockPasswordManager{
			HashFn: func(string) (string, error) { return "", errors.New("hash failed") },
		}

		_, err := newAccountService(t, accounts, passwords).Register(ctx, validRegistration())
		assert.Error(t, err)
		accounts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: "stored-hash",
		FirstName:    "Jane",
	}

	t.Run("success", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, "jane@example.com").Return(account, nil)
		passwords := &mocks.MockPasswordManager{ShouldSucceed: true}

		result, err := newAccountService(t, accounts, passwords).Login(ctx, "JANE@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", result.Token)
		assert.Equal(t, "Jane", result.Account.FirstName)
		assert.Equal(t, "stored-hash", passwords.CompareCalledWith.HashedPassword)
		assert.Equal(t, "pw", passwords.CompareCalledWith.Password)
	})

	t.Run("wrong password yields no token", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(account, nil)

		result, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).Login(ctx, account.Email, "bad")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.Nil(t, result)
	})

	t.Run("unknown email", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrAccountNotFound)

		passwords := &mocks.MockPasswordManager{}

		_, err := newAccountService(t, accounts, passwords).Login(ctx, "nobody@example.com", "pw")
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
		assert.Equal(t, 1, passwords.CompareCallCount)
		assert.True(t, strings.HasPrefix(passwords.CompareCalledWith.HashedPassword, "$2a$10$"))
		assert.Equal(t, "pw", passwords.CompareCalledWith.Password)
	})

	t.Run("store unavailable", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, store.ErrUnavailable)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).Login(ctx, account.Email, "pw")
		assert.ErrorIs(t, err, service.ErrStoreUnavailable)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	account := &domain.Account{ID: id, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
	newName := "  Janet "
	trimmed := "Janet"

	t.Run("success", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByID", mock.Anything, id).Return(account, nil)
		accounts.On("Update", mock.Anything, "jane@example.com", domain.ProfilePatch{FirstName: &trimmed}).
			Return(&domain.Account{ID: id, Email: account.Email, FirstName: trimmed, LastName: "Doe"}, nil)

		result, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).
			UpdateProfile(ctx, id, "", domain.ProfilePatch{FirstName: &newName})
		require.NoError(t, err)
		assert.Equal(t, "signed-token", result.Token)
		assert.Equal(t, "Janet", result.Account.FirstName)
		accounts.AssertExpectations(t)
	})

	t.Run("matching email header", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByID", mock.Anything, id).Return(account, nil)
		accounts.On("Update", mock.Anything, "jane@example.com", mock.Anything).Return(account, nil)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).
			UpdateProfile(ctx, id, "Jane@Example.com", domain.ProfilePatch{FirstName: &newName})
		assert.NoError(t, err)
	})

	t.Run("mismatched email header", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByID", mock.Anything, id).Return(account, nil)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).
			UpdateProfile(ctx, id, "mallory@example.com", domain.ProfilePatch{FirstName: &newName})
		assert.ErrorIs(t, err, service.ErrIdentityMismatch)
		accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty patch rejected before store", func(t *testing.T) {
		accounts := new(mocks.AccountStore)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).
			UpdateProfile(ctx, id, "", domain.ProfilePatch{})
		assert.ErrorIs(t, err, domain.ErrValidation)
		accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("account gone", func(t *testing.T) {
		accounts := new(mocks.AccountStore)
		accounts.On("GetByID", mock.Anything, id).Return(nil, store.ErrAccountNotFound)

		_, err := newAccountService(t, accounts, &mocks.MockPasswordManager{}).
			UpdateProfile(ctx, id, "", domain.ProfilePatch{FirstName: &newName})
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})
}
