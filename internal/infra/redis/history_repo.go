package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo stores the capped prompt history per chat as a JSON list.
// Entries expire with the TTL so a chat that goes quiet leaves nothing behind.
type HistoryRepo struct {
	client RedisClient
	max    int
	ttl    time.Duration
}

func NewHistoryRepo(client RedisClient, max int, ttl time.Duration) *HistoryRepo {
	if max <= 0 {
		max = 5
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HistoryRepo{client: client, max: max, ttl: ttl}
}

func historyKey(chatID int64) string {
	return fmt.Sprintf("prompt_history:%d", chatID)
}

func (h *HistoryRepo) load(ctx context.Context, chatID int64) ([]model.HistoryEntry, error) {
	data, err := h.client.Get(ctx, historyKey(chatID))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (h *HistoryRepo) Append(ctx context.Context, chatID int64, entry model.HistoryEntry) error {
	entries, err := h.load(ctx, chatID)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if len(entries) > h.max {
		entries = entries[len(entries)-h.max:]
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return h.client.Set(ctx, historyKey(chatID), data, h.ttl)
}

func (h *HistoryRepo) Recent(ctx context.Context, chatID int64, limit int) ([]model.HistoryEntry, error) {
	entries, err := h.load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]model.HistoryEntry, 0, limit)
	for i := len(entries) - 1; i >= len(entries)-limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
