package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-prompt-bot/internal/application"
	"telegram-prompt-bot/internal/domain/model"
)

type cbHandler func(ctx context.Context, update model.Update) error

// cbRoutes maps exact callback payloads to handlers. Category buttons carry
// the category value and are matched by parse, not by this table.
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		cbHelp: func(ctx context.Context, up model.Update) error {
			return r.Send(ctx, model.OutboundMessage{ChatID: up.ChatID, Body: r.facade.Help(), Markdown: true})
		},
		cbBack: func(ctx context.Context, up model.Update) error {
			return r.sendMenu(ctx, up.ChatID, r.facade.BackToMenu(up.ChatID))
		},
		cbApprove: func(ctx context.Context, up model.Update) error {
			return r.sendMenu(ctx, up.ChatID, r.facade.Approve(up.ChatID))
		},
		cbRefine: func(ctx context.Context, up model.Update) error {
			text, ok := r.facade.RequestRefinement(up.ChatID)
			if !ok {
				// nothing to refine, likely a stale button after a restart
				return r.sendMenu(ctx, up.ChatID, text)
			}
			return r.SendButtons(ctx, up.ChatID, text, r.backKeyboard())
		},
	}
}

func (r *RealTelegramBotAdapter) routeCallback(ctx context.Context, update model.Update) error {
	if h, ok := r.cbRoutes()[update.Data]; ok {
		return h(ctx, update)
	}
	if _, ok := model.ParseCategory(update.Data); ok {
		text, _ := r.facade.ChooseCategory(update.ChatID, update.Data)
		return r.SendButtons(ctx, update.ChatID, text, r.backKeyboard())
	}
	// Unknown payload: a button from a previous bot version, re-show the menu.
	return r.sendMenu(ctx, update.ChatID, r.facade.BackToMenu(update.ChatID))
}

// handleText dispatches free text through the facade and renders the result.
func (r *RealTelegramBotAdapter) handleText(ctx context.Context, update model.Update) error {
	var statusID int
	if expectsPrompt(r.facade.Stage(update.ChatID)) && update.Text != "" {
		// show progress while the backend call runs; removed afterwards
		if sent, err := r.sendStatus(ctx, update.ChatID); err == nil {
			statusID = sent
		}
	}

	res := r.facade.SubmitText(ctx, update.ChatID, update.Text)
	r.deleteMessage(update.ChatID, statusID)

	switch res.Outcome {
	case application.OutcomeGenerated:
		return r.sendPrompt(ctx, update.ChatID, res.Prompt)
	case application.OutcomeMenu:
		return r.sendMenu(ctx, update.ChatID, res.Notice)
	case application.OutcomeAskDescription:
		return r.SendButtons(ctx, update.ChatID, res.Notice, r.backKeyboard())
	case application.OutcomeBusy, application.OutcomeRateLimited:
		return r.Send(ctx, model.OutboundMessage{ChatID: update.ChatID, Body: res.Notice, Markdown: true})
	default: // OutcomeFailed
		if err := r.Send(ctx, model.OutboundMessage{ChatID: update.ChatID, Body: res.Notice, Markdown: true}); err != nil {
			return err
		}
		return r.sendMenu(ctx, update.ChatID, r.msgs.T("choose_category"))
	}
}

func expectsPrompt(stage model.Stage) bool {
	switch stage {
	case model.StageAwaitingDescription, model.StagePromptShown, model.StageAwaitingRefinement:
		return true
	}
	return false
}

func (r *RealTelegramBotAdapter) sendStatus(ctx context.Context, chatID int64) (int, error) {
	m := tgbotapi.NewMessage(chatID, r.msgs.T("generating"))
	m.ParseMode = tgbotapi.ModeMarkdown
	sent, err := r.sendWithRetry(ctx, m)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// sendPrompt delivers a generated prompt: markdown header, plain-text body
// (chunked so nothing is cut mid-word), then the approve/refine keyboard.
func (r *RealTelegramBotAdapter) sendPrompt(ctx context.Context, chatID int64, prompt string) error {
	if err := r.Send(ctx, model.OutboundMessage{ChatID: chatID, Body: r.msgs.T("here_prompt"), Markdown: true}); err != nil {
		return err
	}
	if err := r.Send(ctx, model.OutboundMessage{ChatID: chatID, Body: prompt}); err != nil {
		return err
	}
	return r.SendButtons(ctx, chatID, r.msgs.T("approve_or_refine"), r.approveRefineKeyboard())
}
