package ai

import (
	"context"
	"fmt"
	"strings"

	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/adapter"
)

var _ adapter.PromptService = (*LocalAdapter)(nil)

// LocalAdapter is the in-process fallback used when no backend credential is
// configured. It expands the description into a deterministic template so the
// bot stays usable offline and in tests.
type LocalAdapter struct{}

func NewLocalAdapter() *LocalAdapter { return &LocalAdapter{} }

func (l *LocalAdapter) Name() string { return "local" }

var localTemplates = map[model.Category]string{
	model.CategoryImage: "A detailed, high-quality image of %s. Cinematic lighting, rich colors, sharp focus, photorealistic, 8k. --ar 1:1",
	model.CategoryVideo: "A 5-10 second video: %s. Smooth camera movement, cinematic lighting, vivid atmosphere, photorealistic style.",
	model.CategoryCode:  "Write well-structured, idiomatic code for the following task: %s. Include input validation, error handling, and brief comments for non-obvious parts.",
	model.CategoryText:  "You are an expert writer. Produce a clear, well-organized text about: %s. Match tone to the audience and keep it concise.",
}

func (l *LocalAdapter) Generate(_ context.Context, category model.Category, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domain.ErrInvalidArgument
	}
	tmpl, ok := localTemplates[category]
	if !ok {
		tmpl = localTemplates[model.CategoryText]
	}
	return fmt.Sprintf(tmpl, description), nil
}

func (l *LocalAdapter) Refine(_ context.Context, currentPrompt, feedback string) (string, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return "", domain.ErrInvalidArgument
	}
	return fmt.Sprintf("%s\n\nAdditional requirements: %s", currentPrompt, feedback), nil
}
