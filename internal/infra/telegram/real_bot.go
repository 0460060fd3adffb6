package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-prompt-bot/internal/application"
	"telegram-prompt-bot/internal/config"
	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/adapter"
	"telegram-prompt-bot/internal/infra/logging"
	"telegram-prompt-bot/internal/infra/metrics"
	"telegram-prompt-bot/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

const sendAttempts = 5

// botAPI is the slice of tgbotapi.BotAPI the adapter uses; tests fake it.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RealTelegramBotAdapter polls Telegram for updates and delegates dispatch
// decisions to the BotFacade. Distinct chats are handled concurrently by a
// worker pool; the facade's busy flag serializes work within one chat.
type RealTelegramBotAdapter struct {
	bot          botAPI
	facade       *application.BotFacade
	msgs         application.Translator
	pool         *worker.Pool
	log          *zerolog.Logger
	drainTimeout time.Duration

	cancelPolling context.CancelFunc

	mu         sync.Mutex
	lastSeenID int64 // dedup cursor: updates at or below it are dropped
	fatalErr   error
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	facade *application.BotFacade,
	msgs application.Translator,
	drainTimeout time.Duration,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}

	// NewBotAPI performs a getMe call, so a revoked token fails here,
	// before any update is consumed.
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, classifySendErr(err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	l := logger.With().Str("component", "telegram").Logger()
	return &RealTelegramBotAdapter{
		bot:          bot,
		facade:       facade,
		msgs:         msgs,
		pool:         worker.NewPool(workers, &l),
		log:          &l,
		drainTimeout: drainTimeout,
	}, nil
}

// StartPolling blocks until ctx is canceled or a fatal transport error
// occurs. In-flight updates finish before it returns.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel
	defer cancel()

	// In-flight prompts drain on their own context so a shutdown signal does
	// not cancel them mid-call; the drain timeout bounds the wait and the
	// facade clears busy flags on cancellation.
	taskCtx, cancelTasks := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelTasks()
	r.pool.Start(taskCtx)
	defer func() {
		r.bot.StopReceivingUpdates()
		timer := time.AfterFunc(r.drainTimeout, cancelTasks)
		r.pool.Stop()
		timer.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			if err := r.fatal(); err != nil {
				return err
			}
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return r.fatal()
			}
			if r.seen(int64(up.UpdateID)) {
				metrics.IncDuplicateUpdate()
				continue
			}
			update := up
			if err := r.pool.Submit(ctx, func(taskCtx context.Context) error {
				return r.handleUpdate(taskCtx, update)
			}); err != nil && !errors.Is(err, context.Canceled) {
				r.log.Warn().Err(err).Int("update_id", update.UpdateID).Msg("dispatch failed")
			}
		}
	}
}

// StopPolling stops the polling loop gracefully.
func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// seen advances the dedup cursor; replays deliver at most once.
func (r *RealTelegramBotAdapter) seen(updateID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if updateID <= r.lastSeenID {
		return true
	}
	r.lastSeenID = updateID
	return false
}

func (r *RealTelegramBotAdapter) setFatal(err error) {
	r.mu.Lock()
	if r.fatalErr == nil {
		r.fatalErr = err
	}
	r.mu.Unlock()
	r.StopPolling()
}

func (r *RealTelegramBotAdapter) fatal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatalErr
}

// handleUpdate converts one tgbotapi update into the domain shape and routes it.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	update, ok := convertUpdate(up)
	if !ok {
		return nil
	}
	metrics.IncUpdateReceived(string(update.Kind))

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithChatID(ctx, update.ChatID)
	ctx = logging.WithUpdateID(ctx, update.ID)
	log := logging.With(ctx, r.log)
	log.Debug().Str("kind", string(update.Kind)).Str("text", logging.Redact(update.Text)).Msg("update received")

	var err error
	switch update.Kind {
	case model.UpdateCallback:
		r.answerCallback(up.CallbackQuery.ID)
		err = r.routeCallback(ctx, update)
	case model.UpdateCommand:
		err = r.routeCommand(ctx, update)
	default:
		err = r.handleText(ctx, update)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			r.setFatal(err)
			return err
		}
		log.Error().Err(err).Msg("update handling failed")
	}
	return nil
}

// convertUpdate maps the wire update into the immutable domain Update.
func convertUpdate(up tgbotapi.Update) (model.Update, bool) {
	switch {
	case up.CallbackQuery != nil:
		cb := up.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil {
			return model.Update{}, false
		}
		return model.Update{
			ID:         int64(up.UpdateID),
			ChatID:     cb.Message.Chat.ID,
			SenderID:   cb.From.ID,
			Kind:       model.UpdateCallback,
			Data:       cb.Data,
			MessageID:  cb.Message.MessageID,
			ReceivedAt: time.Now(),
		}, true
	case up.Message != nil && up.Message.Chat != nil:
		msg := up.Message
		kind := model.UpdateText
		if msg.IsCommand() {
			kind = model.UpdateCommand
		}
		var senderID int64
		if msg.From != nil {
			senderID = msg.From.ID
		}
		return model.Update{
			ID:         int64(up.UpdateID),
			ChatID:     msg.Chat.ID,
			SenderID:   senderID,
			Kind:       kind,
			Text:       msg.Text,
			MessageID:  msg.MessageID,
			ReceivedAt: time.Now(),
		}, true
	}
	return model.Update{}, false
}

func (r *RealTelegramBotAdapter) answerCallback(id string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.log.Debug().Err(err).Msg("answer callback failed")
	}
}

// Send delivers one outbound message, splitting oversized bodies on word
// boundaries. Transient errors are retried with exponential backoff; a
// rejected token is fatal.
func (r *RealTelegramBotAdapter) Send(ctx context.Context, msg model.OutboundMessage) error {
	for _, chunk := range splitIntoChunks(msg.Body, maxMessageLength) {
		m := tgbotapi.NewMessage(msg.ChatID, chunk)
		if msg.Markdown {
			m.ParseMode = tgbotapi.ModeMarkdown
		}
		if msg.ReplyTo != 0 {
			m.ReplyToMessageID = msg.ReplyTo
		}
		if _, err := r.sendWithRetry(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// SendButtons sends text with an inline keyboard.
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	m.ReplyMarkup = toMarkup(rows)
	_, err := r.sendWithRetry(ctx, m)
	return err
}

func (r *RealTelegramBotAdapter) sendWithRetry(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	var lastErr error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return tgbotapi.Message{}, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
		sent, err := r.bot.Send(c)
		if err == nil {
			return sent, nil
		}
		lastErr = classifySendErr(err)
		switch {
		case errors.Is(lastErr, domain.ErrAuthFailed):
			r.setFatal(lastErr)
			return tgbotapi.Message{}, lastErr
		case errors.Is(lastErr, domain.ErrRateLimited):
			metrics.IncSendRetry("rate_limited")
		default:
			metrics.IncSendRetry("network")
		}
	}
	return tgbotapi.Message{}, lastErr
}

// backoff: 500ms, 1s, 2s, 4s.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// classifySendErr maps Telegram API failures onto the domain taxonomy.
func classifySendErr(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		switch tgErr.Code {
		case 401, 403:
			return fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
		case 429:
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		return err
	}
	if strings.Contains(err.Error(), "Unauthorized") {
		return fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}

// deleteMessage is best-effort cleanup for status messages.
func (r *RealTelegramBotAdapter) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := r.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		r.log.Debug().Err(err).Msg("delete status message failed")
	}
}
