package resilience

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/richxcame/storefront/pkg/logger"
)

// RetryConfig controls the retry behavior of Retry.
type RetryConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	EnableJitter      bool
	// RetryableErrors lists errors that should be retried. Empty means
	// all errors are retryable unless RetryableChecker says otherwise.
	RetryableErrors []error
	// RetryableChecker decides retryability when set. It takes
	// precedence over RetryableErrors.
	RetryableChecker func(error) bool
}

// DefaultRetryConfig returns the retry policy used for most database and
// cache operations.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// AggressiveRetryConfig retries more often with shorter waits. Suitable
// for idempotent reads.
func AggressiveRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       5,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        16 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// ConservativeRetryConfig retries at most once more, with longer waits.
func ConservativeRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       2,
		InitialBackoff:    2 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// Retry runs operation up to config.MaxAttempts times, backing off
// exponentially between attempts. It returns the first successful result,
// or the last error once attempts are exhausted or the error is not
// retryable. Context cancellation always stops retrying immediately.
func Retry(ctx context.Context, config RetryConfig, operation func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		result, err := operation(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if !isRetryable(err, config) {
			return nil, err
		}
		if attempt == config.MaxAttempts {
			break
		}

		backoff := calculateBackoff(attempt, config)
		if config.EnableJitter {
			backoff = addJitter(backoff)
		}

		logger.WithContext(ctx).Warn("operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", config.MaxAttempts),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}

func isRetryable(err error, config RetryConfig) bool {
	if config.RetryableChecker != nil {
		return config.RetryableChecker(err)
	}
	if len(config.RetryableErrors) == 0 {
		return true
	}
	for _, target := range config.RetryableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// calculateBackoff returns the exponential backoff for the given attempt,
// capped at config.MaxBackoff. Jitter is applied separately.
func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := float64(config.InitialBackoff)
	for i := 1; i < attempt; i++ {
		backoff *= config.BackoffMultiplier
	}
	if backoff > float64(config.MaxBackoff) {
		return config.MaxBackoff
	}
	return time.Duration(backoff)
}

// addJitter returns a random duration in [0, d].
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d) + 1))
}

// IsRetryableHTTPStatus reports whether an HTTP status code is worth
// retrying: timeouts, throttling and server errors.
func IsRetryableHTTPStatus(status int) bool {
	switch {
	case status == http.StatusRequestTimeout:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
