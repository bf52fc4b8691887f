package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mailroom-dev/mailroom/internal/common"
)

const extractionMaxTokens = 500

// ExtractFields runs the extraction prompt against the model and
// returns normalized fields. The request is deterministic-leaning (low
// temperature) and constrained to a JSON object. Retries are handled by
// the client policy; exhausting them is a terminal TransientAPIError.
func (c *Client) ExtractFields(ctx context.Context, text string) (Fields, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.TemperatureExtraction,
		"text_len", len(text),
	)

	var out Fields
	err := c.policy().Do(ctx, "llm.extract", func(ctx context.Context) error {
		resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.cfg.Model,
			Temperature: c.cfg.TemperatureExtraction,
			MaxTokens:   extractionMaxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildExtractionPrompt(text)},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)

		fields, perr := parseFields(content)
		if perr != nil {
			c.logger.Error("llm.extract.parse_failed", "req_id", rid, "error", perr, "raw_bytes", len(content))
			return perr
		}
		out = fields
		return nil
	})
	if err != nil {
		c.logger.Error("llm.extract.failed",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Fields{}, common.TransientError("field extraction failed after retries: %v", err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"first_name", out.FirstName,
		"last_name", out.LastName,
		"doc_number", out.DocNumber,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
