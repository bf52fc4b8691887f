package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailroom-dev/mailroom/constants"
	"github.com/mailroom-dev/mailroom/internal/common"
)

type scriptedTurn struct {
	content string
	err     error
}

// fakeChat replays scripted turns and records the requests it saw.
type fakeChat struct {
	turns []scriptedTurn
	calls []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls = append(f.calls, req)
	if len(f.calls) > len(f.turns) {
		return openai.ChatCompletionResponse{}, errors.New("unexpected extra call")
	}
	turn := f.turns[len(f.calls)-1]
	if turn.err != nil {
		return openai.ChatCompletionResponse{}, turn.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: turn.content}},
		},
	}, nil
}

func newTestClient(t *testing.T, turns ...scriptedTurn) (*Client, *fakeChat) {
	t.Helper()
	chat := &fakeChat{turns: turns}
	return &Client{
		cfg: Config{
			APIKey:                "test-key",
			Model:                 "test-model",
			TemperatureExtraction: 0.1,
			TemperatureSummary:    0.3,
			MaxRetries:            2,
		},
		chat:   chat,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, chat
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
}

func TestAvailable(t *testing.T) {
	c, _ := newTestClient(t)
	assert.True(t, c.Available())

	c.cfg.APIKey = "placeholder-key"
	assert.False(t, c.Available())

	c.cfg.APIKey = ""
	assert.False(t, c.Available())
}

func TestExtractFields(t *testing.T) {
	c, chat := newTestClient(t, scriptedTurn{
		content: `{"firstName":"Ivan","lastName":"Sanchez","docNumber":"BK8702","facilityName":"CSP","address":"PO Box 1"}`,
	})

	f, err := c.ExtractFields(context.Background(), "some letter text")
	require.NoError(t, err)
	assert.Equal(t, "Ivan", f.FirstName)
	assert.Equal(t, "Sanchez", f.LastName)

	require.Len(t, chat.calls, 1)
	req := chat.calls[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, float32(0.1), req.Temperature)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "some letter text")
}

func TestExtractFieldsRetriesMalformedJSON(t *testing.T) {
	c, chat := newTestClient(t,
		scriptedTurn{content: `this is not json`},
		scriptedTurn{content: `{"lastName":"Sanchez"}`},
	)

	f, err := c.ExtractFields(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, chat.calls, 2)
	assert.Equal(t, "Sanchez", f.LastName)
	assert.Equal(t, constants.Unknown, f.FirstName)
}

func TestExtractFieldsExhaustionIsTransient(t *testing.T) {
	c, chat := newTestClient(t,
		scriptedTurn{err: errors.New("upstream down")},
		scriptedTurn{err: errors.New("upstream down")},
	)

	_, err := c.ExtractFields(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, common.IsTransient(err))
	assert.Len(t, chat.calls, 2)
}

func TestExtractFieldsStopsOnCancellation(t *testing.T) {
	c, chat := newTestClient(t,
		scriptedTurn{err: context.Canceled},
	)

	_, err := c.ExtractFields(context.Background(), "text")
	require.Error(t, err)
	assert.Len(t, chat.calls, 1)
}

func TestSummarize(t *testing.T) {
	c, chat := newTestClient(t, scriptedTurn{
		content: "  An inmate requests a visitation form and asks about mail policy.  ",
	})

	s, err := c.Summarize(context.Background(), "letter text")
	require.NoError(t, err)
	assert.Equal(t, "An inmate requests a visitation form and asks about mail policy.", s)

	require.Len(t, chat.calls, 1)
	assert.Equal(t, float32(0.3), chat.calls[0].Temperature)
	assert.Nil(t, chat.calls[0].ResponseFormat)
}

func TestSummarizeTooShortFallsBackToPlaceholder(t *testing.T) {
	c, chat := newTestClient(t,
		scriptedTurn{content: "ok"},
		scriptedTurn{content: "meh"},
	)

	s, err := c.Summarize(context.Background(), "letter text")
	require.NoError(t, err)
	assert.Equal(t, summaryPlaceholder, s)
	assert.Len(t, chat.calls, 2)
}

func TestSummarizeRecoversAfterShortAttempt(t *testing.T) {
	c, chat := newTestClient(t,
		scriptedTurn{content: "no"},
		scriptedTurn{content: "A letter asking for a grievance form."},
	)

	start := time.Now()
	s, err := c.Summarize(context.Background(), "letter text")
	require.NoError(t, err)
	assert.Equal(t, "A letter asking for a grievance form.", s)
	assert.Len(t, chat.calls, 2)
	// quality failures re-ask without the transient backoff
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSummarizeAPIFailureIsTransient(t *testing.T) {
	c, _ := newTestClient(t,
		scriptedTurn{err: errors.New("boom")},
		scriptedTurn{err: errors.New("boom")},
	)

	_, err := c.Summarize(context.Background(), "letter text")
	require.Error(t, err)
	assert.True(t, common.IsTransient(err))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.True(t, isRateLimited(&openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.False(t, isRateLimited(&openai.APIError{HTTPStatusCode: http.StatusInternalServerError}))
	assert.False(t, isRateLimited(errors.New("plain")))
}
