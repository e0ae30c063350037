//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/platform/postgres"
	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/phrazzld/secondchance-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresItemStore_ConcurrentCreates(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	s := postgres.NewPostgresItemStore(db, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const n = 25
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]bool, n)
	)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := domain.NewItem(domain.ItemFields{
				Name: fmt.Sprintf("item-%d", i), Category: "Living", Condition: "Good", AgeDays: i,
			}, "", time.Now())
			if err := s.Create(ctx, item); err != nil {
				errs <- err
				return
			}
			mu.Lock()
			ids[item.ID] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, ids, n)
	for i := 1; i <= n; i++ {
		assert.True(t, ids[fmt.Sprint(i)], "missing id %d", i)
	}
}

func TestPostgresItemStore_Lifecycle(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	s := postgres.NewPostgresItemStore(db, nil)
	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	item := domain.NewItem(domain.ItemFields{Name: "Lamp", Category: "Living", Condition: "Good", AgeDays: 10}, "/images/a.png", time.Now())
	require.NoError(t, s.Create(ctx, item))
	assert.Equal(t, "1", item.ID)

	got, err := s.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "/images/a.png", got.Image)

	days := 730
	patch := domain.ItemPatch{AgeDays: &days}
	updated, err := s.Update(ctx, "1", patch, patch.AgeYears(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.AgeYears)
	assert.NotNil(t, updated.UpdatedAt)

	require.NoError(t, s.Delete(ctx, "1"))
	assert.ErrorIs(t, s.Delete(ctx, "1"), store.ErrItemNotFound)
}

func TestPostgresAccountStore_Lifecycle(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresAccountStore(tx, nil)
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		reg := domain.Registration{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
		account := domain.NewAccount(reg, "$2a$10$hash", time.Now())
		require.NoError(t, s.Insert(ctx, account))

		got, err := s.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)

		last := "Smith"
		updated, err := s.Update(ctx, "jane@example.com", domain.ProfilePatch{LastName: &last})
		require.NoError(t, err)
		assert.Equal(t, "Smith", updated.LastName)
		assert.Equal(t, "Jane", updated.FirstName)
	})
}
