package redis

import (
	"context"
	"fmt"
	"time"

	"telegram-prompt-bot/internal/domain/ports/repository"
)

var _ repository.RateLimiter = (*RateLimiter)(nil)

// RateLimiter counts prompts per chat in a fixed window. The counter key
// expires with the window, so idle chats cost nothing.
type RateLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client RedisClient, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (r *RateLimiter) Allow(ctx context.Context, chatID int64) (bool, error) {
	key := promptRateKey(chatID)
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}

func promptRateKey(chatID int64) string {
	return fmt.Sprintf("rate_limit:%d:prompt", chatID)
}
