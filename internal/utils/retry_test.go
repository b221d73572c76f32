package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     RateLimitBackoff,
		IsRetryable: IsRateLimitMessage,
		Sleep:       noSleep,
	}
}

func TestWithRetrySucceedsOnLastAttempt(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), testPolicy(), "page", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("429 Too Many Requests")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), testPolicy(), "page", func() (string, error) {
		calls++
		return "", errors.New("rate limit exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestWithRetryNonRetryableFailsFast(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), testPolicy(), "page", func() (string, error) {
		calls++
		return "", errors.New("invalid request")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := testPolicy()
	policy.Sleep = nil // real context-aware sleep

	_, err := WithRetry(ctx, policy, "page", func() (string, error) {
		return "", errors.New("429")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRateLimitMessage(t *testing.T) {
	assert.True(t, IsRateLimitMessage(errors.New("HTTP 429 returned")))
	assert.True(t, IsRateLimitMessage(errors.New("Rate Limit hit")))
	assert.True(t, IsRateLimitMessage(errors.New("TOO MANY REQUESTS")))
	assert.False(t, IsRateLimitMessage(errors.New("connection refused")))
	assert.False(t, IsRateLimitMessage(nil))
}

func TestRateLimitBackoffGrowsExponentially(t *testing.T) {
	for attempt := 0; attempt < 3; attempt++ {
		d := RateLimitBackoff(attempt)
		base := time.Duration(1<<uint(attempt)) * time.Second
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+time.Second)
	}
}
