package infra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBoundedWaitReturnsValue(t *testing.T) {
	res := BoundedWait(context.Background(), time.Second, "fallback", func(context.Context) (string, error) {
		return "value", nil
	})
	if res.TimedOut || res.Err != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Value != "value" {
		t.Fatalf("Value mismatch: got %q", res.Value)
	}
}

func TestBoundedWaitTimeoutIsSoft(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	res := BoundedWait(context.Background(), 10*time.Millisecond, "free", func(context.Context) (string, error) {
		<-block
		return "pro", nil
	})
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if res.Err != nil {
		t.Fatalf("timeout must not surface an error, got %v", res.Err)
	}
	if res.Value != "free" {
		t.Fatalf("expected fallback value, got %q", res.Value)
	}
}

func TestBoundedWaitPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	res := BoundedWait(context.Background(), time.Second, 0, func(context.Context) (int, error) {
		return 42, wantErr
	})
	if !errors.Is(res.Err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", res.Err)
	}
	if res.Value != 0 {
		t.Fatalf("errored call must return the fallback, got %d", res.Value)
	}
}
