package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	result, err := Retry(3, 0, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result != "ok" || attempts != 3 {
		t.Fatalf("expected ok after 3 attempts, got %q after %d", result, attempts)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	lastErr := errors.New("still failing")
	attempts := 0
	_, err := Retry(2, 0, func() (int, error) {
		attempts++
		return 0, lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryErrWithContextStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := RetryErrWithContext(ctx, 5, 0, func(context.Context) error {
		attempts++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("cancelled context should prevent attempts, got %d", attempts)
	}
}

func TestRetryErrWithContextDoesNotRetryCancellation(t *testing.T) {
	attempts := 0
	err := RetryErrWithContext(context.Background(), 5, 0, func(context.Context) error {
		attempts++
		return context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("deadline errors must not be retried, got %d attempts", attempts)
	}
}
