package adapter

import (
	"context"

	"telegram-prompt-bot/internal/domain/model"
)

// PromptService is the downstream prompt handler. Implementations must
// complete or fail within the configured request timeout; the dispatcher
// treats a timeout as a handler failure.
type PromptService interface {
	// Generate turns a free-text description into a ready-to-use prompt
	// for the given category.
	Generate(ctx context.Context, category model.Category, description string) (string, error)
	// Refine applies the user's requested changes to an existing prompt and
	// returns the improved full prompt.
	Refine(ctx context.Context, currentPrompt, feedback string) (string, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}
