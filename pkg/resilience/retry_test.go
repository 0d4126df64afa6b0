package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/storefront/pkg/logger"
)

func init() {
	logger.Init("test")
}

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Millisecond,
		MaxBackoff:        10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastConfig(), func(ctx context.Context) (interface{}, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastConfig(), func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Retry(context.Background(), fastConfig(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	transient := errors.New("transient")
	permanent := errors.New("permanent")

	config := fastConfig()
	config.RetryableErrors = []error{transient}

	calls := 0
	_, err := Retry(context.Background(), config, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, permanent
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryUsesRetryableChecker(t *testing.T) {
	config := fastConfig()
	config.RetryableChecker = func(err error) bool { return false }

	calls := 0
	_, err := Retry(context.Background(), config, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("anything")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Retry(ctx, fastConfig(), func(ctx context.Context) (interface{}, error) {
		calls++
		cancel()
		return nil, context.Canceled
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCalculateBackoff(t *testing.T) {
	config := RetryConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}

	assert.Equal(t, 1*time.Second, calculateBackoff(1, config))
	assert.Equal(t, 2*time.Second, calculateBackoff(2, config))
	assert.Equal(t, 4*time.Second, calculateBackoff(3, config))
	assert.Equal(t, 8*time.Second, calculateBackoff(4, config))

	// capped at MaxBackoff
	assert.Equal(t, 30*time.Second, calculateBackoff(10, config))
}

func TestAddJitter(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		jittered := addJitter(base)
		assert.GreaterOrEqual(t, jittered, time.Duration(0))
		assert.LessOrEqual(t, jittered, base)
	}
	assert.Equal(t, time.Duration(0), addJitter(0))
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	assert.True(t, IsRetryableHTTPStatus(408))
	assert.True(t, IsRetryableHTTPStatus(429))
	assert.True(t, IsRetryableHTTPStatus(500))
	assert.True(t, IsRetryableHTTPStatus(503))

	assert.False(t, IsRetryableHTTPStatus(200))
	assert.False(t, IsRetryableHTTPStatus(400))
	assert.False(t, IsRetryableHTTPStatus(404))
	assert.False(t, IsRetryableHTTPStatus(409))
}

func TestRetryConfigPresets(t *testing.T) {
	def := DefaultRetryConfig()
	assert.Equal(t, 3, def.MaxAttempts)
	assert.True(t, def.EnableJitter)

	agg := AggressiveRetryConfig()
	assert.Equal(t, 5, agg.MaxAttempts)
	assert.Less(t, agg.InitialBackoff, def.InitialBackoff)

	con := ConservativeRetryConfig()
	assert.Equal(t, 2, con.MaxAttempts)
}
