package repository

import (
	"context"
	"time"

	"telegram-prompt-bot/internal/domain/model"
)

// SessionStore holds per-chat conversational context and the busy flag.
// All mutations must be atomic with respect to concurrent dispatch tasks.
type SessionStore interface {
	// GetOrCreate returns a copy of the chat's session, creating it at the
	// main menu on first contact.
	GetOrCreate(chatID int64) model.Session
	// Update applies fn to the chat's session under the store lock and
	// refreshes its activity timestamp.
	Update(chatID int64, fn func(*model.Session))
	// Mark sets the busy flag. It returns true only if the chat was free;
	// a false return enforces the single-in-flight invariant.
	Mark(chatID int64) bool
	// Clear releases the busy flag. Safe to call on a free chat.
	Clear(chatID int64)
	// Busy reports whether a prompt is in flight for the chat.
	Busy(chatID int64) bool
	// Sweep evicts sessions idle since before the threshold and returns how
	// many were removed. Busy chats are never evicted.
	Sweep(idleBefore time.Time) int
	// Len is the current number of tracked sessions.
	Len() int
}

// HistoryRepository keeps the last generated prompts per chat, capped.
type HistoryRepository interface {
	Append(ctx context.Context, chatID int64, entry model.HistoryEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, chatID int64, limit int) ([]model.HistoryEntry, error)
}

// RateLimiter bounds how many prompts a chat may submit per window.
type RateLimiter interface {
	Allow(ctx context.Context, chatID int64) (bool, error)
}
