package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"pm-assist-be/pkg/askai"

	"github.com/stretchr/testify/assert"
)

func testPolicy() (*Policy, *[]time.Duration) {
	var delays []time.Duration
	p := NewPolicy()
	p.Jitter = func() time.Duration { return 500 * time.Millisecond }
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return p, &delays
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	p, delays := testPolicy()

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return askai.NewServiceError(askai.CodeRateLimit, "slow down")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	// Backoff: 2s and 4s base, plus the fixed 500ms jitter.
	assert.Equal(t, []time.Duration{2500 * time.Millisecond, 4500 * time.Millisecond}, *delays)
}

func TestDoStopsOnTerminalError(t *testing.T) {
	p, delays := testPolicy()

	calls := 0
	terminal := askai.NewServiceError(askai.CodeMalformed, "bad request")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return terminal
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, terminal, err)
	assert.Empty(t, *delays)
}

func TestDoExhaustsAttemptBudget(t *testing.T) {
	p, delays := testPolicy()

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return askai.NewServiceError(askai.CodeOverload, "still busy")
	})

	assert.Equal(t, DefaultMaxAttempts, calls)
	assert.Len(t, *delays, DefaultMaxAttempts-1)

	var exhausted *ExhaustedError
	assert.ErrorAs(t, err, &exhausted)
	assert.Equal(t, DefaultMaxAttempts, exhausted.Attempts)
	assert.Contains(t, err.Error(), "failed after 3 attempts")

	// The last underlying error stays reachable for classification.
	var se *askai.ServiceError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, askai.CodeOverload, se.Code)
}

func TestDelayClampedToBounds(t *testing.T) {
	p := NewPolicy()
	p.Jitter = func() time.Duration { return 900 * time.Millisecond }

	// Attempt 3 would be 8s base + jitter, attempt 4 would be 16s: both
	// must stay inside [MinDelay, MaxDelay].
	for attempt := 1; attempt <= 5; attempt++ {
		d := p.delayFor(attempt)
		assert.GreaterOrEqual(t, d, p.MinDelay, "attempt %d", attempt)
		assert.LessOrEqual(t, d, p.MaxDelay, "attempt %d", attempt)
	}
}

func TestDoTreatsDeadlineAsRetryable(t *testing.T) {
	p, _ := testPolicy()

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return context.DeadlineExceeded
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoReturnsCancellationFromSleep(t *testing.T) {
	p := NewPolicy()
	p.Jitter = func() time.Duration { return 0 }
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		return askai.NewServiceError(askai.CodeOverload, "busy")
	})
	assert.True(t, errors.Is(err, context.Canceled))
}
