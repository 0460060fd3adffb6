package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-prompt-bot/internal/domain/ports/repository"
	"telegram-prompt-bot/internal/infra/metrics"
)

// SweepWorker periodically evicts idle sessions to bound memory.
type SweepWorker struct {
	interval time.Duration
	idle     time.Duration
	sessions repository.SessionStore
	log      *zerolog.Logger
}

func NewSweepWorker(interval, idle time.Duration, sessions repository.SessionStore, logger *zerolog.Logger) *SweepWorker {
	l := logger.With().Str("component", "SweepWorker").Logger()
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepWorker{
		interval: interval,
		idle:     idle,
		sessions: sessions,
		log:      &l,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("idle", w.idle).Msg("starting session sweeper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping session sweeper")
			return ctx.Err()
		case <-ticker.C:
			n := w.sessions.Sweep(time.Now().Add(-w.idle))
			metrics.SetActiveSessions(w.sessions.Len())
			if n > 0 {
				metrics.AddSessionsEvicted(n)
				w.log.Info().Int("count", n).Msg("idle sessions evicted")
			}
		}
	}
}
