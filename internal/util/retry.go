package util

import (
	"context"
	"errors"
	"time"
)

// Retry calls fn up to maxTries times, waiting delay between attempts,
// until it returns nil error. If maxTries <= 0, it defaults to 1.
// Returns the last error if all attempts fail.
func Retry[T any](maxTries int, delay time.Duration, fn func() (T, error)) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < maxTries-1 {
			time.Sleep(delay)
		}
	}
	return zero, lastErr
}

// RetryErrWithContext calls fn up to maxTries times until it returns
// nil error or ctx is done. Context cancellation is returned
// immediately, never retried.
func RetryErrWithContext(ctx context.Context, maxTries int, delay time.Duration, fn func(context.Context) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err
		if i < maxTries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}
