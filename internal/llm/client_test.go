package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallWithRetry_SucceedsFirstAttempt(t *testing.T) {
	cfg := DefaultConfig()
	calls := 0
	var slept []time.Duration

	text, err := callWithRetry(context.Background(), cfg, func(d time.Duration) { slept = append(slept, d) }, func() (string, error) {
		calls++
		return `{"ok": true}`, nil
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept, "no backoff delay on immediate success")
}

func TestCallWithRetry_LinearBackoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDelay = 1000 * time.Millisecond

	calls := 0
	var slept []time.Duration

	text, err := callWithRetry(context.Background(), cfg, func(d time.Duration) { slept = append(slept, d) }, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &APIError{StatusCode: 503, Message: "overloaded"}
		}
		return `{"ok": true}`, nil
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
	assert.Equal(t, 3, calls)
	// Linear, not exponential: base x 1 then base x 2.
	require.Len(t, slept, 2)
	assert.Equal(t, 1000*time.Millisecond, slept[0])
	assert.Equal(t, 2000*time.Millisecond, slept[1])
}

func TestCallWithRetry_ExhaustedBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3

	calls := 0
	lastAttemptErr := &APIError{StatusCode: 429, Message: "rate limited"}

	_, err := callWithRetry(context.Background(), cfg, func(time.Duration) {}, func() (string, error) {
		calls++
		return "", lastAttemptErr
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls, "no attempts beyond the budget")

	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, lastAttemptErr, exhausted.LastErr)

	// The last underlying error stays reachable through the chain.
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
}

func TestCallWithRetry_ContextCanceledBetweenAttempts(t *testing.T) {
	cfg := DefaultConfig()
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := callWithRetry(ctx, cfg, func(time.Duration) {}, func() (string, error) {
		calls++
		cancel()
		return "", errors.New("network down")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation stops further attempts")
}

func TestCallWithRetry_ZeroAttemptsClampedToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 0

	calls := 0
	_, err := callWithRetry(context.Background(), cfg, func(time.Duration) {}, func() (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
