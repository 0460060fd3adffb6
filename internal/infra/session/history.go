package session

import (
	"context"
	"sync"

	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/repository"
)

var _ repository.HistoryRepository = (*MemoryHistory)(nil)

// MemoryHistory keeps the last max generated prompts per chat.
type MemoryHistory struct {
	mu      sync.Mutex
	max     int
	entries map[int64][]model.HistoryEntry
}

func NewMemoryHistory(max int) *MemoryHistory {
	if max <= 0 {
		max = 5
	}
	return &MemoryHistory{max: max, entries: make(map[int64][]model.HistoryEntry)}
}

func (h *MemoryHistory) Append(_ context.Context, chatID int64, entry model.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := append(h.entries[chatID], entry)
	if len(list) > h.max {
		list = list[len(list)-h.max:]
	}
	h.entries[chatID] = list
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, chatID int64, limit int) ([]model.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.entries[chatID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	// newest first
	out := make([]model.HistoryEntry, 0, limit)
	for i := len(list) - 1; i >= len(list)-limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
