package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	defaultMaxAttempts  = 5
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 60 * time.Second
	delayMultiplier     = 2
)

// StatusError is a provider HTTP error carrying its status code. The code
// decides whether another attempt is worth making.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status signals a transient condition.
func (e *StatusError) Retryable() bool {
	switch e.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// errTransport marks connection-level failures that are always retryable.
var errTransport = errors.New("transport error")

// IsRetryable classifies an attempt error. Timeouts and transient provider
// statuses are retried; everything else fails the request immediately.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	if errors.Is(err, errTransport) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// RetryPolicy is the shared backoff state machine: attempt, classify, sleep,
// double the delay up to a ceiling, give up after MaxAttempts. The sleep is
// injectable so transition timing is unit-testable without a clock.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Sleep        func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the policy both providers share.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  defaultMaxAttempts,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}

	if p.InitialDelay <= 0 {
		p.InitialDelay = defaultInitialDelay
	}

	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}

	if p.Sleep == nil {
		p.Sleep = sleepContext
	}

	return p
}

// Do runs op until it succeeds, fails terminally, or attempts run out.
// The error from the final attempt is returned wrapped so callers can still
// classify it with errors.As.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	p = p.withDefaults()

	var lastErr error

	delay := p.InitialDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}

		if attempt == p.MaxAttempts {
			break
		}

		if err := p.Sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry interrupted: %w", err)
		}

		delay = nextDelay(delay, p.MaxDelay)
	}

	return fmt.Errorf("%d attempts exhausted: %w", p.MaxAttempts, lastErr)
}

// nextDelay doubles the backoff delay, capped at maxDelay.
func nextDelay(delay, maxDelay time.Duration) time.Duration {
	delay *= delayMultiplier
	if delay > maxDelay {
		return maxDelay
	}

	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
