package canvas

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSleep(slept *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestRetryPolicy_SucceedsFirstTry(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Factor: 2, Sleep: fakeSleep(&slept)}

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestRetryPolicy_RetriesTransientWithBackoff(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, Factor: 2, Sleep: fakeSleep(&slept)}

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &RemoteError{StatusCode: http.StatusTooManyRequests}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept)
}

func TestRetryPolicy_ExhaustionWrapsLastError(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 2, Sleep: fakeSleep(&slept)}

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return &RemoteError{StatusCode: http.StatusServiceUnavailable}
	})

	assert.Equal(t, 3, calls)
	require.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 503")
}

func TestRetryPolicy_TerminalErrorReturnsImmediately(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, Factor: 2, Sleep: fakeSleep(&slept)}

	terminal := &RemoteError{StatusCode: http.StatusBadRequest, Body: "unknown field"}
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return terminal
	})

	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.NotErrorIs(t, err, ErrRetryExhausted)
}

func TestRetryPolicy_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, Factor: 2}

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return context.DeadlineExceeded
	})

	assert.Equal(t, 1, calls)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRetryExhausted)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &RemoteError{StatusCode: 429}, true},
		{"server error", &RemoteError{StatusCode: 500}, true},
		{"bad gateway", &RemoteError{StatusCode: 502}, true},
		{"bad request", &RemoteError{StatusCode: 400}, false},
		{"not found", &RemoteError{StatusCode: 404}, false},
		{"conflict", &RemoteError{StatusCode: 409}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped remote", errors.New("unrelated"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}
