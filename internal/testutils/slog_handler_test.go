package testutils

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestSlogHandler(t *testing.T) {
	logger, h := NewTestLogger()

	logger.With("component", "worker").Warn("task failed", "task_id", "42")
	logger.Info("started")

	entries := h.Entries()
	require.Len(t, entries, 2)

	e, ok := h.Find(slog.LevelWarn, "task failed")
	require.True(t, ok)
	assert.Equal(t, "worker", e["component"])
	assert.Equal(t, "42", e["task_id"])

	_, ok = h.Find(slog.LevelError, "started")
	assert.False(t, ok)

	h.Clear()
	assert.Empty(t, h.Entries())
}
