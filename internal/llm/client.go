// Package llm turns OCR text into structured sender fields and a short
// summary using OpenAI chat completions. Both calls run under the shared
// retry policy: rate limiting backs off exponentially, malformed output
// and other transient failures back off linearly, and exhausting the
// attempt budget is a terminal error for the document.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mailroom-dev/mailroom/internal/common"
	"github.com/mailroom-dev/mailroom/internal/retry"
)

// chatCompleter is the slice of *openai.Client we depend on; tests
// substitute a scripted fake.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config for the extraction/summarization client.
type Config struct {
	APIKey                string
	Model                 string
	TemperatureExtraction float32
	TemperatureSummary    float32
	MaxRetries            int
	Timeout               time.Duration
}

type Client struct {
	cfg    Config
	chat   chatCompleter
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		return nil, common.DependencyError("OpenAI API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	logger.Info("llm.client.init",
		"model", cfg.Model,
		"temp_extraction", cfg.TemperatureExtraction,
		"temp_summary", cfg.TemperatureSummary,
	)
	return &Client{
		cfg:    cfg,
		chat:   openai.NewClientWithConfig(oc),
		logger: logger,
	}, nil
}

// Available reports whether the client is configured. It never sends a
// billable request.
func (c *Client) Available() bool {
	return c.cfg.APIKey != "" && c.cfg.APIKey != "placeholder-key"
}

func (c *Client) policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.cfg.MaxRetries,
		Backoff: func(attempt int, err error) time.Duration {
			if errors.Is(err, errShortSummary) {
				return 0
			}
			if isRateLimited(err) {
				return retry.ExpBackoff(time.Second)(attempt, err)
			}
			return time.Second
		},
		Retryable: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
		Logger: c.logger,
	}
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
