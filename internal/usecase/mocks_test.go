// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"

	"telegram-prompt-bot/internal/domain/model"
)

// fakeBackend scripts responses per call and records input for assertions.
type fakeBackend struct {
	mu        sync.Mutex
	genCalls  int
	refCalls  int
	lastInput string
	reply     string
	err       error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(_ context.Context, category model.Category, description string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genCalls++
	f.lastInput = description
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return fmt.Sprintf("[%s] %s", category, description), nil
}

func (f *fakeBackend) Refine(_ context.Context, currentPrompt, feedback string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refCalls++
	f.lastInput = feedback
	if f.err != nil {
		return "", f.err
	}
	return currentPrompt + " + " + feedback, nil
}

// fakeHistory stores entries in memory and can be told to fail writes.
type fakeHistory struct {
	mu      sync.Mutex
	entries map[int64][]model.HistoryEntry
	failAdd error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{entries: map[int64][]model.HistoryEntry{}}
}

func (f *fakeHistory) Append(_ context.Context, chatID int64, entry model.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd != nil {
		return f.failAdd
	}
	f.entries[chatID] = append([]model.HistoryEntry{entry}, f.entries[chatID]...)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, chatID int64, limit int) ([]model.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.entries[chatID]
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]model.HistoryEntry, len(items))
	copy(out, items)
	return out, nil
}
