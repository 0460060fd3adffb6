// File: internal/usecase/prompt_uc.go
package usecase

import (
	"context"
	"strings"

	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/adapter"
	"telegram-prompt-bot/internal/domain/ports/repository"
	"telegram-prompt-bot/internal/infra/metrics"
)

// Compile-time check
var _ PromptUseCase = (*promptUC)(nil)

type PromptUseCase interface {
	// Generate produces a prompt for the description and records it in the
	// chat's history.
	Generate(ctx context.Context, chatID int64, category model.Category, description string) (string, error)
	// Refine improves an existing prompt with the user's feedback.
	Refine(ctx context.Context, chatID int64, currentPrompt, feedback string) (string, error)
	// History lists the chat's recent prompts, newest first.
	History(ctx context.Context, chatID int64) ([]model.HistoryEntry, error)
}

type promptUC struct {
	backend    adapter.PromptService
	history    repository.HistoryRepository
	historyMax int
}

func NewPromptUseCase(backend adapter.PromptService, history repository.HistoryRepository, historyMax int) *promptUC {
	if historyMax <= 0 {
		historyMax = 5
	}
	return &promptUC{backend: backend, history: history, historyMax: historyMax}
}

func (p *promptUC) Generate(ctx context.Context, chatID int64, category model.Category, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domain.ErrInvalidArgument
	}
	prompt, err := p.backend.Generate(ctx, category, description)
	metrics.IncPrompt(string(category), err == nil)
	if err != nil {
		return "", err
	}
	// History append is best-effort; a failed write must not lose the reply.
	_ = p.history.Append(ctx, chatID, model.NewHistoryEntry(category, prompt))
	return prompt, nil
}

func (p *promptUC) Refine(ctx context.Context, chatID int64, currentPrompt, feedback string) (string, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return "", domain.ErrInvalidArgument
	}
	if currentPrompt == "" {
		return "", domain.ErrNotFound
	}
	prompt, err := p.backend.Refine(ctx, currentPrompt, feedback)
	metrics.IncPrompt("refine", err == nil)
	if err != nil {
		return "", err
	}
	return prompt, nil
}

func (p *promptUC) History(ctx context.Context, chatID int64) ([]model.HistoryEntry, error) {
	return p.history.Recent(ctx, chatID, p.historyMax)
}
