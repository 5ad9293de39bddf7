package infra

import (
	"context"
	"time"
)

// WaitResult tags the outcome of a bounded external call. When TimedOut is
// set, Value holds the caller-provided default and Err is nil: a timeout is
// a soft failure, not an error.
type WaitResult[T any] struct {
	Value    T
	TimedOut bool
	Err      error
}

// BoundedWait races fn against a fixed timer. The underlying call is not
// cancelled on timeout; its result is simply discarded when it arrives late.
func BoundedWait[T any](ctx context.Context, limit time.Duration, fallback T, fn func(context.Context) (T, error)) WaitResult[T] {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{value: v, err: err}
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return WaitResult[T]{Value: fallback, Err: out.err}
		}
		return WaitResult[T]{Value: out.value}
	case <-timer.C:
		return WaitResult[T]{Value: fallback, TimedOut: true}
	case <-ctx.Done():
		return WaitResult[T]{Value: fallback, TimedOut: true}
	}
}
