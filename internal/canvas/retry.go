package canvas

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries transient failures with exponential backoff. It is
// an explicit value consumed by the executor; outcomes are returned, not
// signalled through panics or sentinel control flow.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt; each further
	// attempt multiplies the previous delay by Factor.
	BaseDelay time.Duration
	Factor    float64

	// Sleep is swapped out in tests. Nil means a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy matches the configured deployment defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Factor: 2}
}

// Do runs call until it succeeds, returns a terminal error, the context
// ends, or attempts run out. Exhausting the budget on transient errors
// converts the last one into ErrRetryExhausted.
func (p RetryPolicy) Do(ctx context.Context, call func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := p.BaseDelay
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = time.Duration(float64(delay) * p.Factor)
		}
		lastErr = call(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			// The run was cancelled; don't convert that into a
			// per-entity retry exhaustion.
			return lastErr
		}
		if !Retryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
