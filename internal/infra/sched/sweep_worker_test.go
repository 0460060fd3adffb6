package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/infra/session"
)

func TestSweepWorkerEvictsIdleSessions(t *testing.T) {
	store := session.NewMemoryStore()
	store.GetOrCreate(1)
	store.GetOrCreate(2)
	store.Update(1, func(s *model.Session) {
		s.LastActivity = time.Now().Add(-time.Hour)
	})

	logger := zerolog.Nop()
	w := NewSweepWorker(10*time.Millisecond, 30*time.Minute, store, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("idle session not evicted, Len = %d", store.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v", err)
	}

	if store.Busy(2) {
		t.Fatal("surviving session unexpectedly busy")
	}
}

func TestSweepWorkerStopsOnCancel(t *testing.T) {
	store := session.NewMemoryStore()
	logger := zerolog.Nop()
	w := NewSweepWorker(time.Hour, time.Hour, store, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
