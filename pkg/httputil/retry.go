package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The catalog client wraps
// transport errors and 5xx statuses with it; [Retry] re-attempts only
// errors carrying this marker and treats everything else as permanent.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, a permanent error occurs, or attempts
// runs out. The wait between attempts starts at delay and doubles each
// round. Cancelling ctx during a wait aborts with ctx.Err(); after the
// final attempt the last transient error is returned.
//
// The attempt count and initial delay are policy the caller owns: the
// catalog client picks them to suit the discovery API.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
