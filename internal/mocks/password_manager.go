package mocks

import (
	"github.com/phrazzld/secondchance-api/internal/service/auth"
)

// MockPasswordManager implements auth.PasswordHasher and auth.PasswordVerifier for testing
type MockPasswordManager struct {
	// HashFn allows for custom hashing logic in tests
	HashFn func(password string) (string, error)

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareCalledWith stores the arguments passed to Compare for verification
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// HashCallCount and CompareCallCount track how often each method was called
	HashCallCount    int
	CompareCallCount int
}

// Hash implements the auth.PasswordHasher interface.
// By default it returns "hashed:" followed by the password.
func (m *MockPasswordManager) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordManager) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return auth.ErrPasswordMismatch
}

var (
	_ auth.PasswordHasher   = (*MockPasswordManager)(nil)
	_ auth.PasswordVerifier = (*MockPasswordManager)(nil)
)
