package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/adapter"
)

// Callback payloads. Category buttons carry the category value itself.
const (
	cbHelp    = "help"
	cbBack    = "back"
	cbApprove = "approve"
	cbRefine  = "refine"
)

func (r *RealTelegramBotAdapter) categoryKeyboard() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{
			{Text: r.msgs.T("btn_image"), Data: string(model.CategoryImage)},
			{Text: r.msgs.T("btn_code"), Data: string(model.CategoryCode)},
		},
		{
			{Text: r.msgs.T("btn_video"), Data: string(model.CategoryVideo)},
			{Text: r.msgs.T("btn_text"), Data: string(model.CategoryText)},
		},
		{
			{Text: r.msgs.T("btn_help"), Data: cbHelp},
		},
	}
}

func (r *RealTelegramBotAdapter) backKeyboard() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: r.msgs.T("btn_back"), Data: cbBack}},
	}
}

func (r *RealTelegramBotAdapter) approveRefineKeyboard() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{
			{Text: r.msgs.T("btn_approve"), Data: cbApprove},
			{Text: r.msgs.T("btn_refine"), Data: cbRefine},
		},
	}
}

// toMarkup converts port-level rows into tgbotapi markup.
func toMarkup(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			switch {
			case btn.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			case btn.Data != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			default:
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Text))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
