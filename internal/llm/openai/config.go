package openai

import (
	"log/slog"
	"net/http"
	"time"
)

// Config controls the live chat/completions backend.
type Config struct {
	BaseURL     string // default https://api.openai.com/v1
	Model       string // default gpt-4o-mini
	APIKey      string
	Temperature float32
	Timeout     time.Duration // per-request; default 90s

	// MaxArticleChars caps the article text embedded in the prompt. This is
	// this backend's documented truncation policy; callers must not assume one.
	MaxArticleChars int // default 24000, 0 keeps the default; negative disables
}

// Client calls an OpenAI-compatible chat/completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient applies defaults and returns a ready client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.MaxArticleChars == 0 {
		cfg.MaxArticleChars = 24000
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}
