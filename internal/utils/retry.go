package utils

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryPolicy defines bounded retry behavior for an operation. Backoff and
// retryability are injected so the policy stays testable on its own.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	IsRetryable func(err error) bool
	// Sleep is swappable in tests; defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// RateLimitBackoff returns 2^attempt + uniform(0,1) seconds for attempt 0,1,2...
func RateLimitBackoff(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt)) + rand.Float64()
	return time.Duration(seconds * float64(time.Second))
}

// IsRateLimitMessage reports whether an error message reads like an upstream
// rate limit, matched case-insensitively.
func IsRateLimitMessage(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"429", "rate limit", "too many requests"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithRetry executes fn under the policy. Non-retryable errors propagate
// immediately; retryable ones are retried with the policy backoff up to the
// attempt cap. Success on the last attempt counts.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			if attempt > 0 {
				logrus.Infof("%s succeeded on attempt %d/%d", operation, attempt+1, policy.MaxAttempts)
			}
			return result, nil
		}

		lastErr = err

		if policy.IsRetryable != nil && !policy.IsRetryable(err) {
			return zero, err
		}

		if attempt == policy.MaxAttempts-1 {
			break
		}

		delay := policy.Backoff(attempt)
		logrus.Warnf("%s attempt %d/%d failed: %v, retrying in %.2fs",
			operation, attempt+1, policy.MaxAttempts, err, delay.Seconds())
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", operation, policy.MaxAttempts, lastErr)
}
