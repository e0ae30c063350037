package testutils

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry represents a simplified log record for testing
type LogEntry map[string]any

// TestSlogHandler is a memory-backed slog.Handler for testing.
// Loggers derived with With share the parent's entries.
type TestSlogHandler struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	attrs   []slog.Attr
}

// NewTestSlogHandler creates a new memory-backed slog handler
func NewTestSlogHandler() *TestSlogHandler {
	return &TestSlogHandler{
		mu:      &sync.Mutex{},
		entries: &[]LogEntry{},
	}
}

// NewTestLogger returns a logger writing to a new TestSlogHandler.
func NewTestLogger() (*slog.Logger, *TestSlogHandler) {
	h := NewTestSlogHandler()
	return slog.New(h), h
}

// Enabled satisfies slog.Handler interface
func (h *TestSlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle satisfies slog.Handler interface
func (h *TestSlogHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(LogEntry, len(h.attrs)+r.NumAttrs()+2)
	for _, a := range h.attrs {
		entry[a.Key] = a.Value.Any()
	}
	entry["level"] = r.Level.String()
	entry["message"] = r.Message
	r.Attrs(func(attr slog.Attr) bool {
		entry[attr.Key] = attr.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.entries = append(*h.entries, entry)
	return nil
}

// WithAttrs satisfies slog.Handler interface
func (h *TestSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TestSlogHandler{mu: h.mu, entries: h.entries, attrs: merged}
}

// WithGroup satisfies slog.Handler interface. Groups are flattened.
func (h *TestSlogHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Entries returns all captured log entries
func (h *TestSlogHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]LogEntry, len(*h.entries))
	copy(result, *h.entries)
	return result
}

// Find returns the first entry with the given level and message.
func (h *TestSlogHandler) Find(level slog.Level, message string) (LogEntry, bool) {
	for _, e := range h.Entries() {
		if e["level"] == level.String() && e["message"] == message {
			return e, true
		}
	}
	return nil, false
}

// Clear resets the captured log entries
func (h *TestSlogHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	*h.entries = (*h.entries)[:0]
}
