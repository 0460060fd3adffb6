package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// The process is configured entirely from the environment; there are no CLI
// flags. Only BOT_TOKEN is required, everything else has a default.

type BotConfig struct {
	Token   string
	Workers int // concurrent update workers
}

type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

type PromptConfig struct {
	BackendURL    string
	APIKey        string
	Model         string
	Timeout       time.Duration
	RetryAttempts int
	// ConcurrentLimit caps in-flight backend calls across all chats.
	ConcurrentLimit int
}

type RedisConfig struct {
	URL      string // empty disables redis, in-memory fallbacks are used
	Password string
	DB       int
}

type LimitsConfig struct {
	RatePerMinute   int
	HistoryMax      int
	SessionIdle     time.Duration
	ShutdownTimeout time.Duration
}

type AdminConfig struct {
	Port int // health + metrics listener
}

type Config struct {
	Bot    BotConfig
	Log    LogConfig
	Prompt PromptConfig
	Redis  RedisConfig
	Limits LimitsConfig
	Admin  AdminConfig
}

const defaultBackendURL = "https://api.deepseek.com/v1"

// Load reads the recognized environment variables, applies defaults and
// validates. It has no side effects beyond reading the environment; a missing
// or empty BOT_TOKEN means the process must not start.
func Load() (*Config, error) {
	cfg := &Config{
		Bot: BotConfig{
			Token:   os.Getenv("BOT_TOKEN"),
			Workers: envInt("POLL_WORKERS", 8),
		},
		Log: LogConfig{
			Level:  envStr("LOG_LEVEL", "info"),
			Format: envStr("LOG_FORMAT", "json"),
		},
		Prompt: PromptConfig{
			BackendURL:      envStr("PROMPT_BACKEND_URL", defaultBackendURL),
			APIKey:          os.Getenv("PROMPT_API_KEY"),
			Model:           envStr("PROMPT_MODEL", "deepseek-chat"),
			Timeout:         time.Duration(envInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
			RetryAttempts:   envInt("PROMPT_RETRY_ATTEMPTS", 3),
			ConcurrentLimit: envInt("PROMPT_CONCURRENT_LIMIT", 16),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		Limits: LimitsConfig{
			RatePerMinute:   envInt("RATE_LIMIT_PER_MINUTE", 5),
			HistoryMax:      envInt("HISTORY_MAX_ITEMS", 5),
			SessionIdle:     time.Duration(envInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
			ShutdownTimeout: time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Admin: AdminConfig{
			Port: envInt("ADMIN_PORT", 8080),
		},
	}

	if cfg.Bot.Token == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	if cfg.Prompt.Timeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT_SECONDS must be a positive integer")
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Prompt.RetryAttempts <= 0 {
		cfg.Prompt.RetryAttempts = 3
	}
	if cfg.Limits.RatePerMinute <= 0 {
		cfg.Limits.RatePerMinute = 5
	}
	if cfg.Limits.HistoryMax <= 0 {
		cfg.Limits.HistoryMax = 5
	}
	if cfg.Limits.SessionIdle <= 0 {
		cfg.Limits.SessionIdle = 30 * time.Minute
	}
	if cfg.Limits.ShutdownTimeout <= 0 {
		cfg.Limits.ShutdownTimeout = 10 * time.Second
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL %q not one of debug|info|warn|error", cfg.Log.Level)
	}
	return cfg, nil
}

// LocalBackend reports whether the in-process prompt handler should be used
// instead of a remote backend (no credential configured).
func (c *Config) LocalBackend() bool {
	return c.Prompt.APIKey == ""
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
