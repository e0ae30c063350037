package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTask struct {
	id  uuid.UUID
	run func(ctx context.Context) error
}

func newStubTask(run func(ctx context.Context) error) *stubTask {
	return &stubTask{id: uuid.New(), run: run}
}

func (s *stubTask) ID() uuid.UUID { return s.id }
func (s *stubTask) Type() string  { return "stub" }
func (s *stubTask) Execute(ctx context.Context) error {
	if s.run == nil {
		return nil
	}
	return s.run(ctx)
}

func TestTaskQueue_Enqueue(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(2, nil)
	require.NoError(t, q.Enqueue(newStubTask(nil)))
	require.NoError(t, q.Enqueue(newStubTask(nil)))

	err := q.Enqueue(newStubTask(nil))
	assert.True(t, errors.Is(err, ErrQueueFull))

	<-q.GetChannel()
	assert.NoError(t, q.Enqueue(newStubTask(nil)))
}

func TestTaskQueue_Close(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(4, nil)
	first := newStubTask(nil)
	require.NoError(t, q.Enqueue(first))

	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Enqueue(newStubTask(nil)), ErrQueueClosed)

	got, ok := <-q.GetChannel()
	require.True(t, ok, "queued task should remain readable after close")
	assert.Equal(t, first.ID(), got.ID())

	_, ok = <-q.GetChannel()
	assert.False(t, ok)
}

func TestNewTaskQueue_MinimumSize(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(0, nil)
	assert.Equal(t, 1, cap(q.GetChannel()))
}
