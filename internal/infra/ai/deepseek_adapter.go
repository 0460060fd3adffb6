package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/adapter"
	"telegram-prompt-bot/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.PromptService = (*DeepSeekAdapter)(nil)

// DeepSeekAdapter implements adapter.PromptService against DeepSeek's
// OpenAI-compatible chat completions endpoint. Any OpenAI-compatible base URL
// works; the default is https://api.deepseek.com/v1.
// Retries are handled here, not by the SDK, so auth failures surface
// immediately and attempts follow the configured budget.
type DeepSeekAdapter struct {
	client   openai.Client
	model    string
	timeout  time.Duration
	attempts int
}

func NewDeepSeekAdapter(apiKey, baseURL, model string, timeout time.Duration, attempts int) (*DeepSeekAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("deepseek api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	if model == "" {
		model = "deepseek-chat"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if attempts <= 0 {
		attempts = 3
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/")),
		option.WithMaxRetries(0),
	)
	return &DeepSeekAdapter{
		client:   client,
		model:    model,
		timeout:  timeout,
		attempts: attempts,
	}, nil
}

func (d *DeepSeekAdapter) Name() string { return "deepseek" }

func (d *DeepSeekAdapter) Generate(ctx context.Context, category model.Category, description string) (string, error) {
	return d.complete(ctx, SystemPrompt(category), description)
}

func (d *DeepSeekAdapter) Refine(ctx context.Context, currentPrompt, feedback string) (string, error) {
	user := fmt.Sprintf("Current prompt:\n%s\n\nUser's requested changes or additions:\n%s", currentPrompt, feedback)
	return d.complete(ctx, refinementSystemPrompt, user)
}

func (d *DeepSeekAdapter) complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < d.attempts; attempt++ {
		if attempt > 0 {
			// exponential backoff: 1s, 2s, 4s...
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}
		reply, err := d.once(ctx, system, user)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if errors.Is(err, domain.ErrAuthFailed) || errors.Is(err, context.Canceled) {
			return "", err
		}
	}
	return "", lastErr
}

func (d *DeepSeekAdapter) once(ctx context.Context, system, user string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	resp, err := d.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	metrics.ObserveBackendLatency(d.Name(), float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", classify(err)
	}
	for _, c := range resp.Choices {
		if s := strings.TrimSpace(c.Message.Content); s != "" {
			return s, nil
		}
	}
	return "", domain.ErrEmptyReply
}

// classify maps SDK errors onto the domain taxonomy so callers can decide
// between retry, user-visible failure, and process termination.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
		case 429:
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}
