package ai

import (
	"context"

	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.PromptService = (*limitedPromptService)(nil)

type limitedPromptService struct {
	inner adapter.PromptService
	sem   chan struct{}
}

// NewLimitedPromptService caps concurrent backend calls across all chats.
func NewLimitedPromptService(inner adapter.PromptService, maxConcurrent int) adapter.PromptService {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedPromptService{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedPromptService) Name() string { return l.inner.Name() }

func (l *limitedPromptService) acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limitedPromptService) Generate(ctx context.Context, category model.Category, description string) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, category, description)
}

func (l *limitedPromptService) Refine(ctx context.Context, currentPrompt, feedback string) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer func() { <-l.sem }()
	return l.inner.Refine(ctx, currentPrompt, feedback)
}
