package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// apiError carries the HTTP status of a failed provider call so the
// retry loop can tell transient failures from permanent ones.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.status, e.message)
}

// isTransient reports whether a failed call is worth retrying.
// Timeouts, rate limits and server errors are transient; everything
// else (bad requests, auth failures) fails immediately.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.status == http.StatusTooManyRequests || apiErr.status >= 500
	}

	return false
}

// withRetry runs fn up to maxAttempts times with exponential backoff.
// Context cancellation and circuit breaker rejections stop the loop
// immediately.
func withRetry(ctx context.Context, fn func() error) error {
	backoff := initialBackoff

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return err
		}
		if !isTransient(err) || attempt == maxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// newBreaker builds the circuit breaker shared by the provider
// adapters. It opens after a 60% failure ratio over at least 3 calls.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})
}
