// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-prompt-bot/internal/application"
	"telegram-prompt-bot/internal/config"
	"telegram-prompt-bot/internal/domain/ports/adapter"
	"telegram-prompt-bot/internal/domain/ports/repository"
	"telegram-prompt-bot/internal/infra/ai"
	"telegram-prompt-bot/internal/infra/i18n"
	"telegram-prompt-bot/internal/infra/logging"
	"telegram-prompt-bot/internal/infra/metrics"
	red "telegram-prompt-bot/internal/infra/redis"
	"telegram-prompt-bot/internal/infra/sched"
	"telegram-prompt-bot/internal/infra/session"
	tele "telegram-prompt-bot/internal/infra/telegram"
	"telegram-prompt-bot/internal/infra/web"
	"telegram-prompt-bot/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Config (environment only, no flags) ----
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.Log)
	metrics.MustRegister()

	msgs, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		logger.Error().Err(err).Msg("message catalog")
		return 1
	}

	// ---- Session state (in-memory, never persisted) ----
	sessions := session.NewMemoryStore()

	// ---- Redis (optional): rate limiting and history survive restarts ----
	var (
		limiter repository.RateLimiter
		history repository.HistoryRepository
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Error().Err(err).Msg("redis")
			return 1
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient, cfg.Limits.RatePerMinute, time.Minute)
		history = red.NewHistoryRepo(redisClient, cfg.Limits.HistoryMax, 24*time.Hour)
		logger.Info().Msg("redis enabled for rate limiting and history")
	} else {
		limiter = session.NewMemoryRateLimiter(cfg.Limits.RatePerMinute, time.Minute)
		history = session.NewMemoryHistory(cfg.Limits.HistoryMax)
	}

	// ---- Prompt backend ----
	var backend adapter.PromptService
	if cfg.LocalBackend() {
		backend = ai.NewLocalAdapter()
		logger.Warn().Msg("PROMPT_API_KEY not set; using the in-process prompt handler")
	} else {
		backend, err = ai.NewDeepSeekAdapter(
			cfg.Prompt.APIKey, cfg.Prompt.BackendURL, cfg.Prompt.Model,
			cfg.Prompt.Timeout, cfg.Prompt.RetryAttempts,
		)
		if err != nil {
			logger.Error().Err(err).Msg("prompt backend")
			return 1
		}
		logger.Info().Str("base", cfg.Prompt.BackendURL).Str("model", cfg.Prompt.Model).Msg("prompt backend configured")
	}
	backend = ai.NewLimitedPromptService(backend, cfg.Prompt.ConcurrentLimit)

	// ---- Use cases and facade ----
	promptUC := usecase.NewPromptUseCase(backend, history, cfg.Limits.HistoryMax)
	facade := application.NewBotFacade(sessions, promptUC, limiter, msgs, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, msgs, cfg.Limits.ShutdownTimeout, logger)
	if err != nil {
		logger.Error().Err(err).Msg("telegram")
		return 1
	}

	pollErr := make(chan error, 1)
	go func() { pollErr <- botAdapter.StartPolling(ctx) }()

	// ---- Admin HTTP (health + metrics) ----
	srv := web.NewServer(sessions, logger)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: mux}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("admin http server")
		}
	}()

	// ---- Session sweeper ----
	sweeper := sched.NewSweepWorker(time.Minute, cfg.Limits.SessionIdle, sessions, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- Wait for termination or a fatal transport error ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigc:
		logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
		cancel()
		// bounded drain: in-flight prompts may finish, then we leave
		select {
		case <-pollErr:
		case <-time.After(cfg.Limits.ShutdownTimeout + time.Second):
			logger.Warn().Msg("drain timeout exceeded, exiting")
		}
	case err := <-pollErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("telegram polling failed")
			exitCode = 1
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	logger.Info().Int("exit_code", exitCode).Msg("stopped")
	return exitCode
}
