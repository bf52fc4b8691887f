package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mailroom-dev/mailroom/internal/common"
)

const (
	summaryInputLimit  = 3000
	summaryMaxTokens   = 150
	summaryMinLength   = 10
	summaryPlaceholder = "Letter content could not be summarized effectively."
)

// errShortSummary marks a quality failure rather than an API failure;
// the retry policy re-asks immediately instead of backing off.
var errShortSummary = errors.New("summary too short")

// Summarize asks the model for a 1-2 sentence summary at the summary
// temperature. A trimmed result under summaryMinLength is a retryable
// quality failure; after the attempt budget the fixed placeholder is
// returned instead of an error.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("llm.summary.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.TemperatureSummary,
		"text_len", len(text),
	)

	var out string
	var quality bool // last failure was a too-short summary, not an API error
	err := c.policy().Do(ctx, "llm.summary", func(ctx context.Context) error {
		quality = false
		resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.cfg.Model,
			Temperature: c.cfg.TemperatureSummary,
			MaxTokens:   summaryMaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildSummaryPrompt(text)},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		summary := strings.TrimSpace(resp.Choices[0].Message.Content)
		if len(summary) < summaryMinLength {
			quality = true
			return fmt.Errorf("%w: %d chars", errShortSummary, len(summary))
		}
		out = summary
		return nil
	})
	if err != nil {
		if quality {
			c.logger.Warn("llm.summary.placeholder",
				"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
			return summaryPlaceholder, nil
		}
		c.logger.Error("llm.summary.failed",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", common.TransientError("summarization failed after retries: %v", err)
	}

	c.logger.Info("llm.summary.ok",
		"req_id", rid, "chars", len(out), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
