package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
)

// fakeBot scripts Send results per call; everything else is a no-op.
type fakeBot struct {
	mu      sync.Mutex
	sendErr []error // consumed one per Send call, nil means success
	sends   []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, c)
	if len(f.sendErr) > 0 {
		err := f.sendErr[0]
		f.sendErr = f.sendErr[1:]
		if err != nil {
			return tgbotapi.Message{}, err
		}
	}
	return tgbotapi.Message{MessageID: len(f.sends)}, nil
}

func (f *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeBot) StopReceivingUpdates() {}

func (f *fakeBot) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

func newTestAdapter(bot botAPI) *RealTelegramBotAdapter {
	logger := zerolog.Nop()
	return &RealTelegramBotAdapter{bot: bot, log: &logger}
}

func TestClassifySendErr(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized code", &tgbotapi.Error{Code: 401, Message: "Unauthorized"}, domain.ErrAuthFailed},
		{"forbidden code", &tgbotapi.Error{Code: 403, Message: "Forbidden"}, domain.ErrAuthFailed},
		{"too many requests", &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, domain.ErrRateLimited},
		{"unauthorized text", errors.New("Unauthorized"), domain.ErrAuthFailed},
		{"plain network", errors.New("connection reset"), domain.ErrNetwork},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifySendErr(tc.err); !errors.Is(got, tc.want) {
				t.Fatalf("classifySendErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}

	// Other API codes pass through unwrapped.
	err := &tgbotapi.Error{Code: 400, Message: "Bad Request"}
	got := classifySendErr(err)
	if errors.Is(got, domain.ErrAuthFailed) || errors.Is(got, domain.ErrRateLimited) || errors.Is(got, domain.ErrNetwork) {
		t.Fatalf("400 should not be classified, got %v", got)
	}
}

func TestSeenDeduplicatesByUpdateID(t *testing.T) {
	r := newTestAdapter(&fakeBot{})

	if r.seen(5) {
		t.Fatal("first delivery of id 5 marked as seen")
	}
	if !r.seen(5) {
		t.Fatal("replay of id 5 not deduplicated")
	}
	if !r.seen(3) {
		t.Fatal("stale id 3 not deduplicated")
	}
	if r.seen(6) {
		t.Fatal("fresh id 6 marked as seen")
	}
}

func TestSendWithRetryRecoversFromTransientError(t *testing.T) {
	bot := &fakeBot{sendErr: []error{errors.New("connection reset"), nil}}
	r := newTestAdapter(bot)

	msg := tgbotapi.NewMessage(1, "hello")
	if _, err := r.sendWithRetry(context.Background(), msg); err != nil {
		t.Fatalf("send after retry: %v", err)
	}
	if bot.sendCount() != 2 {
		t.Fatalf("send attempts = %d, want 2", bot.sendCount())
	}
}

func TestSendWithRetryAuthErrorIsFatal(t *testing.T) {
	bot := &fakeBot{sendErr: []error{&tgbotapi.Error{Code: 401, Message: "Unauthorized"}}}
	r := newTestAdapter(bot)

	_, err := r.sendWithRetry(context.Background(), tgbotapi.NewMessage(1, "hello"))
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if bot.sendCount() != 1 {
		t.Fatalf("send attempts = %d, auth errors must not be retried", bot.sendCount())
	}
	if r.fatal() == nil {
		t.Fatal("auth failure must be recorded as fatal")
	}
}

func TestSendWithRetryHonorsContext(t *testing.T) {
	bot := &fakeBot{sendErr: []error{errors.New("connection reset"), errors.New("connection reset")}}
	r := newTestAdapter(bot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.sendWithRetry(ctx, tgbotapi.NewMessage(1, "hello"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if bot.sendCount() != 1 {
		t.Fatalf("send attempts = %d, canceled context must stop retries", bot.sendCount())
	}
}

func TestSendSplitsOversizedBody(t *testing.T) {
	bot := &fakeBot{}
	r := newTestAdapter(bot)

	body := ""
	for len([]rune(body)) <= maxMessageLength {
		body += "sample words to fill the message body beyond the telegram limit "
	}
	if err := r.Send(context.Background(), model.OutboundMessage{ChatID: 1, Body: body}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if bot.sendCount() < 2 {
		t.Fatalf("oversized body sent as %d message(s)", bot.sendCount())
	}
	for _, c := range bot.sends {
		m, ok := c.(tgbotapi.MessageConfig)
		if !ok {
			t.Fatalf("unexpected chattable %T", c)
		}
		if n := len([]rune(m.Text)); n > maxMessageLength {
			t.Fatalf("chunk with %d runes sent", n)
		}
	}
}

func TestConvertUpdate(t *testing.T) {
	chat := &tgbotapi.Chat{ID: 77}

	cmd := tgbotapi.Update{UpdateID: 1, Message: &tgbotapi.Message{
		MessageID: 5,
		Chat:      chat,
		From:      &tgbotapi.User{ID: 9},
		Text:      "/start",
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	got, ok := convertUpdate(cmd)
	if !ok || got.Kind != model.UpdateCommand {
		t.Fatalf("command update = %+v, ok=%v", got, ok)
	}
	if got.ChatID != 77 || got.SenderID != 9 || got.Text != "/start" {
		t.Fatalf("command fields = %+v", got)
	}

	text := tgbotapi.Update{UpdateID: 2, Message: &tgbotapi.Message{
		MessageID: 6, Chat: chat, Text: "a cat on a roof",
	}}
	got, ok = convertUpdate(text)
	if !ok || got.Kind != model.UpdateText {
		t.Fatalf("text update = %+v, ok=%v", got, ok)
	}

	cb := tgbotapi.Update{UpdateID: 3, CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 9},
		Data:    "image",
		Message: &tgbotapi.Message{MessageID: 7, Chat: chat},
	}}
	got, ok = convertUpdate(cb)
	if !ok || got.Kind != model.UpdateCallback || got.Data != "image" {
		t.Fatalf("callback update = %+v, ok=%v", got, ok)
	}

	if _, ok := convertUpdate(tgbotapi.Update{UpdateID: 4}); ok {
		t.Fatal("update without payload must be skipped")
	}
}
