package task

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/secondchance-api/internal/events"
)

type recordingDeleter struct {
	mu   sync.Mutex
	refs []string
	err  error
}

func (d *recordingDeleter) Delete(_ context.Context, ref string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs = append(d.refs, ref)
	return d.err
}

func TestAssetCleanupEventHandler(t *testing.T) {
	t.Parallel()

	newEvent := func(t *testing.T, typ string, payload events.ItemPayload) *events.Event {
		t.Helper()
		ev, err := events.NewEvent(typ, payload)
		require.NoError(t, err)
		return ev
	}

	t.Run("schedules cleanup for deleted item with image", func(t *testing.T) {
		q := NewTaskQueue(1, nil)
		deleter := &recordingDeleter{}
		h := NewAssetCleanupEventHandler(q, deleter, nil)

		ev := newEvent(t, events.ItemDeleted, events.ItemPayload{ItemID: "7", Image: "/images/a.png"})
		require.NoError(t, h.HandleEvent(context.Background(), ev))

		queued := <-q.GetChannel()
		cleanup, ok := queued.(*AssetCleanupTask)
		require.True(t, ok)
		assert.Equal(t, "/images/a.png", cleanup.Ref())
		assert.Equal(t, TaskTypeAssetCleanup, cleanup.Type())

		require.NoError(t, cleanup.Execute(context.Background()))
		assert.Equal(t, []string{"/images/a.png"}, deleter.refs)
	})

	t.Run("ignores items without image", func(t *testing.T) {
		q := NewTaskQueue(1, nil)
		h := NewAssetCleanupEventHandler(q, &recordingDeleter{}, nil)

		ev := newEvent(t, events.ItemDeleted, events.ItemPayload{ItemID: "7"})
		require.NoError(t, h.HandleEvent(context.Background(), ev))
		assert.Len(t, q.GetChannel(), 0)
	})

	t.Run("ignores other event types", func(t *testing.T) {
		q := NewTaskQueue(1, nil)
		h := NewAssetCleanupEventHandler(q, &recordingDeleter{}, nil)

		ev := newEvent(t, events.ItemCreated, events.ItemPayload{ItemID: "7", Image: "/images/a.png"})
		require.NoError(t, h.HandleEvent(context.Background(), ev))
		assert.Len(t, q.GetChannel(), 0)
	})

	t.Run("reports closed queue", func(t *testing.T) {
		q := NewTaskQueue(1, nil)
		q.Close()
		h := NewAssetCleanupEventHandler(q, &recordingDeleter{}, nil)

		ev := newEvent(t, events.ItemDeleted, events.ItemPayload{ItemID: "7", Image: "/images/a.png"})
		assert.ErrorIs(t, h.HandleEvent(context.Background(), ev), ErrQueueClosed)
	})
}

func TestAssetCleanupTask_ExecuteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("storage down")
	task := NewAssetCleanupTask("images/x.png", &recordingDeleter{err: boom})
	assert.ErrorIs(t, task.Execute(context.Background()), boom)
}
