package session

import (
	"context"
	"sync"
	"time"

	"telegram-prompt-bot/internal/domain/ports/repository"
)

var _ repository.RateLimiter = (*MemoryRateLimiter)(nil)

// MemoryRateLimiter is a sliding-window per-chat limiter used when no redis
// is configured. Timestamps older than the window are dropped on each check.
type MemoryRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[int64][]time.Time
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:  limit,
		window: window,
		seen:   make(map[int64][]time.Time),
	}
}

func (r *MemoryRateLimiter) Allow(_ context.Context, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	cutoff := now.Add(-r.window)

	kept := r.seen[chatID][:0]
	for _, t := range r.seen[chatID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= r.limit {
		r.seen[chatID] = kept
		return false, nil
	}
	r.seen[chatID] = append(kept, now)
	return true, nil
}
