package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"pm-assist-be/pkg/askai"
)

// Defaults for the generation retry policy.
const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 60 * time.Second
	DefaultMinDelay       = 2 * time.Second
	DefaultMaxDelay       = 10 * time.Second
	maxJitter             = time.Second
)

// ExhaustedError is the terminal failure after all attempts were consumed by
// retryable errors. It is user-facing.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Policy retries an operation on transient failures with exponential backoff
// and bounded jitter. One attempt runs under a hard timeout; expiry feeds
// the same retry path as a retryable server error. Non-retryable errors are
// returned immediately.
type Policy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	MinDelay       time.Duration
	MaxDelay       time.Duration
	Retryable      func(error) bool

	// Test seams.
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func() time.Duration
}

// NewPolicy returns a policy with the default attempt budget and delays.
func NewPolicy() *Policy {
	return &Policy{
		MaxAttempts:    DefaultMaxAttempts,
		AttemptTimeout: DefaultAttemptTimeout,
		MinDelay:       DefaultMinDelay,
		MaxDelay:       DefaultMaxDelay,
		Retryable:      askai.IsRetryable,
		Sleep:          sleepCtx,
		Jitter:         func() time.Duration { return time.Duration(rand.Int63n(int64(maxJitter))) },
	}
}

// Do runs op until it succeeds, fails terminally, or the attempt budget is
// exhausted.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptCtx := ctx
		cancel := func() {}
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		err := op(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if !p.Retryable(err) {
			return err
		}
		last = err

		if attempt == p.MaxAttempts {
			break
		}
		if err := p.Sleep(ctx, p.delayFor(attempt)); err != nil {
			return err
		}
	}
	return &ExhaustedError{Attempts: p.MaxAttempts, Last: last}
}

// delayFor computes the backoff before the attempt following attempt n:
// 2 * 2^(n-1) seconds plus jitter, clamped to [MinDelay, MaxDelay].
func (p *Policy) delayFor(attempt int) time.Duration {
	base := 2 * time.Second * (1 << (attempt - 1))
	d := base + p.Jitter()
	if d < p.MinDelay {
		d = p.MinDelay
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
