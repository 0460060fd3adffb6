package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/repository"
	"telegram-prompt-bot/internal/infra/logging"
	"telegram-prompt-bot/internal/infra/metrics"
	"telegram-prompt-bot/internal/usecase"
)

// Outcome tells the Telegram adapter how to render a SubmitText result.
type Outcome int

const (
	// OutcomeMenu re-shows the main menu with the category keyboard.
	OutcomeMenu Outcome = iota
	// OutcomeAskDescription re-asks for a description (empty input).
	OutcomeAskDescription
	// OutcomeBusy means a prompt was already in flight and this one was dropped.
	OutcomeBusy
	// OutcomeRateLimited means the per-chat limit rejected the prompt.
	OutcomeRateLimited
	// OutcomeGenerated carries a freshly generated or refined prompt.
	OutcomeGenerated
	// OutcomeFailed carries a user-facing error notice.
	OutcomeFailed
)

// PromptResult is what the adapter renders after free text was dispatched.
type PromptResult struct {
	Outcome Outcome
	Prompt  string // set for OutcomeGenerated
	Notice  string // localized text for every other outcome
}

// Translator is the message-catalog surface the facade needs.
type Translator interface {
	T(key string, args ...interface{}) string
}

// BotFacade composes the prompt use case with session state into the
// per-update dispatch policy: busy flag, rate limit, conversation stages.
// The Telegram adapter stays a thin rendering layer on top of it.
type BotFacade struct {
	Sessions repository.SessionStore
	PromptUC usecase.PromptUseCase

	limiter repository.RateLimiter
	msgs    Translator
	log     *zerolog.Logger
}

func NewBotFacade(
	sessions repository.SessionStore,
	promptUC usecase.PromptUseCase,
	limiter repository.RateLimiter,
	msgs Translator,
	logger *zerolog.Logger,
) *BotFacade {
	l := logger.With().Str("component", "BotFacade").Logger()
	return &BotFacade{
		Sessions: sessions,
		PromptUC: promptUC,
		limiter:  limiter,
		msgs:     msgs,
		log:      &l,
	}
}

// Stage reports the chat's conversational stage so the adapter can decide
// whether a status message is worth showing before dispatch.
func (b *BotFacade) Stage(chatID int64) model.Stage {
	return b.Sessions.GetOrCreate(chatID).Stage
}

// Welcome resets the chat to the main menu and returns the welcome text.
func (b *BotFacade) Welcome(chatID int64) string {
	b.toMenu(chatID)
	return b.msgs.T("welcome")
}

// Cancel aborts any flow and returns to the menu.
func (b *BotFacade) Cancel(chatID int64) string {
	b.toMenu(chatID)
	return b.msgs.T("cancel")
}

// BackToMenu handles the back button.
func (b *BotFacade) BackToMenu(chatID int64) string {
	b.toMenu(chatID)
	return b.msgs.T("choose_category")
}

// Approve accepts the shown prompt and returns to the menu.
func (b *BotFacade) Approve(chatID int64) string {
	b.toMenu(chatID)
	return b.msgs.T("choose_category")
}

// Help returns the command help text.
func (b *BotFacade) Help() string {
	return b.msgs.T("help")
}

func (b *BotFacade) toMenu(chatID int64) {
	b.Sessions.Update(chatID, func(s *model.Session) {
		s.Stage = model.StageMainMenu
	})
}

// ChooseCategory stores the picked category and returns the description
// request text. Unknown callback data falls back to the menu.
func (b *BotFacade) ChooseCategory(chatID int64, data string) (string, bool) {
	category, ok := model.ParseCategory(data)
	if !ok {
		b.toMenu(chatID)
		return b.msgs.T("choose_category"), false
	}
	b.Sessions.Update(chatID, func(s *model.Session) {
		s.Category = category
		s.Stage = model.StageAwaitingDescription
	})
	return b.msgs.T("ask_" + string(category)), true
}

// RequestRefinement switches the chat into the refinement flow. Without a
// previous prompt (e.g. after a restart) it falls back to the menu.
func (b *BotFacade) RequestRefinement(chatID int64) (string, bool) {
	s := b.Sessions.GetOrCreate(chatID)
	if s.LastPrompt == "" {
		b.toMenu(chatID)
		return b.msgs.T("choose_category"), false
	}
	b.Sessions.Update(chatID, func(s *model.Session) {
		s.Stage = model.StageAwaitingRefinement
	})
	return b.msgs.T("send_refinement"), true
}

// SubmitText dispatches free text according to the chat's stage. At most one
// prompt per chat is in flight: the busy flag is taken before the backend
// call and released on every path, including cancellation.
func (b *BotFacade) SubmitText(ctx context.Context, chatID int64, text string) *PromptResult {
	text = strings.TrimSpace(text)
	s := b.Sessions.GetOrCreate(chatID)

	switch s.Stage {
	case model.StageAwaitingDescription, model.StagePromptShown:
		if s.Category == "" {
			return &PromptResult{Outcome: OutcomeMenu, Notice: b.msgs.T("choose_category")}
		}
		if text == "" {
			return &PromptResult{Outcome: OutcomeAskDescription, Notice: b.msgs.T("ask_" + string(s.Category))}
		}
		return b.dispatch(ctx, chatID, func(ctx context.Context) (string, error) {
			return b.PromptUC.Generate(ctx, chatID, s.Category, text)
		}, func(sess *model.Session, prompt string) {
			sess.Description = text
			sess.LastPrompt = prompt
		})

	case model.StageAwaitingRefinement:
		if s.LastPrompt == "" {
			return &PromptResult{Outcome: OutcomeMenu, Notice: b.msgs.T("choose_category")}
		}
		if text == "" {
			return &PromptResult{Outcome: OutcomeAskDescription, Notice: b.msgs.T("send_refinement")}
		}
		return b.dispatch(ctx, chatID, func(ctx context.Context) (string, error) {
			return b.PromptUC.Refine(ctx, chatID, s.LastPrompt, text)
		}, func(sess *model.Session, prompt string) {
			sess.LastPrompt = prompt
		})

	default:
		return &PromptResult{Outcome: OutcomeMenu, Notice: b.msgs.T("choose_category")}
	}
}

// dispatch enforces busy and rate-limit policy around one backend call.
func (b *BotFacade) dispatch(
	ctx context.Context,
	chatID int64,
	call func(ctx context.Context) (string, error),
	commit func(s *model.Session, prompt string),
) *PromptResult {
	log := logging.With(ctx, b.log)
	defer logging.TraceDuration(log, "BotFacade.dispatch")()

	if !b.Sessions.Mark(chatID) {
		metrics.IncBusyRejection()
		log.Debug().Err(domain.ErrChatBusy).Msg("prompt dropped")
		return &PromptResult{Outcome: OutcomeBusy, Notice: b.msgs.T("busy")}
	}
	defer b.Sessions.Clear(chatID)

	allowed, err := b.limiter.Allow(ctx, chatID)
	if err != nil {
		// A broken limiter should not take the bot down; let the prompt pass.
		log.Warn().Err(err).Msg("rate limiter unavailable")
		allowed = true
	}
	if !allowed {
		metrics.IncRateLimitRejection()
		return &PromptResult{Outcome: OutcomeRateLimited, Notice: b.msgs.T("rate_limited")}
	}

	prompt, err := call(ctx)
	if err != nil {
		log.Error().Err(err).Msg("prompt backend call failed")
		return &PromptResult{Outcome: OutcomeFailed, Notice: b.errorNotice(err)}
	}

	b.Sessions.Update(chatID, func(s *model.Session) {
		commit(s, prompt)
		s.Stage = model.StagePromptShown
	})
	return &PromptResult{Outcome: OutcomeGenerated, Prompt: prompt}
}

// HistoryText formats the chat's recent prompts for display.
func (b *BotFacade) HistoryText(ctx context.Context, chatID int64) string {
	entries, err := b.PromptUC.History(ctx, chatID)
	if err != nil {
		logging.With(ctx, b.log).Warn().Err(err).Msg("history lookup failed")
		return b.msgs.T("history_empty")
	}
	if len(entries) == 0 {
		return b.msgs.T("history_empty")
	}
	sb := strings.Builder{}
	sb.WriteString(b.msgs.T("history_header", len(entries)))
	sb.WriteString("\n\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. *%s*: %s\n", i+1, e.Category, e.Preview))
	}
	return sb.String()
}

func (b *BotFacade) errorNotice(err error) string {
	switch {
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return b.msgs.T("error_network")
	case errors.Is(err, domain.ErrAuthFailed), errors.Is(err, domain.ErrRateLimited):
		return b.msgs.T("error_api")
	default:
		return b.msgs.T("error_generic")
	}
}
