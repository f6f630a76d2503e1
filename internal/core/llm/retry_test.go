package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"server error", &StatusError{Code: http.StatusInternalServerError}, true},
		{"bad gateway", &StatusError{Code: http.StatusBadGateway}, true},
		{"service unavailable", &StatusError{Code: http.StatusServiceUnavailable}, true},
		{"gateway timeout", &StatusError{Code: http.StatusGatewayTimeout}, true},
		{"bad request is terminal", &StatusError{Code: http.StatusBadRequest}, false},
		{"unauthorized is terminal", &StatusError{Code: http.StatusUnauthorized}, false},
		{"not found is terminal", &StatusError{Code: http.StatusNotFound}, false},
		{"transport failure", errTransport, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled is terminal", context.Canceled, false},
		{"arbitrary error is terminal", errBoom, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestRetryPolicy_BackoffDoublesUpToCap(t *testing.T) {
	var slept []time.Duration

	policy := RetryPolicy{
		MaxAttempts:  6,
		InitialDelay: 2 * time.Second,
		MaxDelay:     10 * time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return &StatusError{Code: http.StatusServiceUnavailable}
	})

	require.Error(t, err)
	assert.Equal(t, 6, calls)
	assert.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}, slept)
}

func TestRetryPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Sleep:        func(context.Context, time.Duration) error { return nil },
	}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: dial refused", errTransport)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_TerminalErrorShortCircuits(t *testing.T) {
	sleeps := 0

	policy := RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Sleep: func(context.Context, time.Duration) error {
			sleeps++
			return nil
		},
	}

	calls := 0
	terminal := &StatusError{Code: http.StatusBadRequest}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return terminal
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sleeps)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
}

func TestRetryPolicy_ExhaustionWrapsLastError(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Sleep:        func(context.Context, time.Duration) error { return nil },
	}

	err := policy.Do(context.Background(), func(context.Context) error {
		return &StatusError{Code: http.StatusTooManyRequests, Body: "slow down"}
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 attempts exhausted")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
}

func TestRetryPolicy_CanceledSleepAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := policy.Do(ctx, func(context.Context) error {
		return &StatusError{Code: http.StatusServiceUnavailable}
	})

	require.ErrorIs(t, err, context.Canceled)
}
