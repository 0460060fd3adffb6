package adapter

import (
	"context"

	"telegram-prompt-bot/internal/domain/model"
)

// InlineButton is one button of an inline keyboard row.
// URL buttons open a link; Data buttons send callback data.
type InlineButton struct {
	Text string
	Data string
	URL  string
}

// TelegramBotAdapter abstracts the chat platform.
type TelegramBotAdapter interface {
	// StartPolling blocks until ctx is canceled or a fatal transport error
	// (rejected token) occurs.
	StartPolling(ctx context.Context) error
	// StopPolling cancels the polling loop; in-flight updates drain.
	StopPolling()
	// Send delivers one outbound message, splitting oversized bodies.
	Send(ctx context.Context, msg model.OutboundMessage) error
	// SendButtons sends text with an inline keyboard.
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
}
