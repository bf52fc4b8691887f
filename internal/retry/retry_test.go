package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3}
	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3}
	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	p := Policy{MaxAttempts: 3}
	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	p := Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}
	err := p.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return fatal
	})
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Policy{MaxAttempts: 3}
	err := p.Do(ctx, "op", func(context.Context) error { return errors.New("never") })
	require.ErrorIs(t, err, context.Canceled)
}

func TestExpBackoffDoubles(t *testing.T) {
	b := ExpBackoff(time.Second)
	assert.Equal(t, 1*time.Second, b(0, nil))
	assert.Equal(t, 2*time.Second, b(1, nil))
	assert.Equal(t, 4*time.Second, b(2, nil))
}

func TestConstBackoff(t *testing.T) {
	b := ConstBackoff(time.Second)
	assert.Equal(t, time.Second, b(0, nil))
	assert.Equal(t, time.Second, b(7, nil))
}
