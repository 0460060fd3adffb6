package telegram

import (
	"context"
	"strings"

	"telegram-prompt-bot/internal/domain/model"
)

type commandHandler func(ctx context.Context, update model.Update) error

// commandRoutes defines all bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":   r.handleStartCommand,
		"help":    r.handleHelpCommand,
		"cancel":  r.handleCancelCommand,
		"history": r.handleHistoryCommand,
	}
}

func (r *RealTelegramBotAdapter) routeCommand(ctx context.Context, update model.Update) error {
	name := strings.ToLower(strings.TrimPrefix(strings.Fields(update.Text)[0], "/"))
	// strip the @BotName suffix of group-style commands
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}
	if h, ok := r.commandRoutes()[name]; ok {
		return h(ctx, update)
	}
	return r.sendMenu(ctx, update.ChatID, r.facade.Help())
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, update model.Update) error {
	return r.sendMenu(ctx, update.ChatID, r.facade.Welcome(update.ChatID))
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, update model.Update) error {
	return r.Send(ctx, model.OutboundMessage{ChatID: update.ChatID, Body: r.facade.Help(), Markdown: true})
}

func (r *RealTelegramBotAdapter) handleCancelCommand(ctx context.Context, update model.Update) error {
	return r.sendMenu(ctx, update.ChatID, r.facade.Cancel(update.ChatID))
}

func (r *RealTelegramBotAdapter) handleHistoryCommand(ctx context.Context, update model.Update) error {
	text := r.facade.HistoryText(ctx, update.ChatID)
	return r.Send(ctx, model.OutboundMessage{ChatID: update.ChatID, Body: text, Markdown: true})
}

// sendMenu shows text together with the category keyboard.
func (r *RealTelegramBotAdapter) sendMenu(ctx context.Context, chatID int64, text string) error {
	return r.SendButtons(ctx, chatID, text, r.categoryKeyboard())
}
