package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/phrazzld/secondchance-api/internal/service"
)

// MockAssetStore implements service.AssetStore for testing
type MockAssetStore struct {
	// SaveFn allows test cases to mock the Save behavior
	SaveFn func(ctx context.Context, filename string, body io.Reader) (string, error)

	// DeleteFn allows test cases to mock the Delete behavior
	DeleteFn func(ctx context.Context, ref string) error

	// Default values used when functions aren't explicitly defined
	Ref       string
	SaveErr   error
	DeleteErr error

	mu          sync.Mutex
	savedNames  []string
	deletedRefs []string
}

// Save implements the service.AssetStore interface. The body is drained.
func (m *MockAssetStore) Save(ctx context.Context, filename string, body io.Reader) (string, error) {
	m.mu.Lock()
	m.savedNames = append(m.savedNames, filename)
	m.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, filename, body)
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return m.Ref, m.SaveErr
}

// Delete implements the service.AssetStore interface
func (m *MockAssetStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	m.deletedRefs = append(m.deletedRefs, ref)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ref)
	}
	return m.DeleteErr
}

// SavedNames returns the filenames passed to Save
func (m *MockAssetStore) SavedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.savedNames...)
}

// DeletedRefs returns the references passed to Delete
func (m *MockAssetStore) DeletedRefs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletedRefs...)
}

var _ service.AssetStore = (*MockAssetStore)(nil)
