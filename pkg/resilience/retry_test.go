package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoRetriesUntilSuccess(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}
	calls := 0
	err := policy.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}
	calls := 0
	wantErr := errors.New("still broken")
	err := policy.Do(func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoCtxStopsOnRateLimit(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, Backoff: time.Millisecond}
	calls := 0
	err := policy.DoCtx(context.Background(), func() error {
		calls++
		return RateLimitError{Provider: "test", Message: "slow down"}
	})
	if !IsRateLimit(err) {
		t.Fatalf("err = %v, want rate limit", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoCtxHonorsCancel(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 10, Backoff: 50 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := policy.DoCtx(ctx, func() error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls < 1 {
		t.Fatal("fn never called")
	}
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker(2, 20*time.Millisecond)
	if !cb.Allow() {
		t.Fatal("breaker should start closed")
	}
	cb.OnError(errors.New("boom"))
	if !cb.Allow() {
		t.Fatal("plain errors should not trip the breaker")
	}
	cb.OnError(RateLimitError{Provider: "test"})
	cb.OnError(RateLimitError{Provider: "test"})
	if cb.Allow() {
		t.Fatal("breaker should be open after threshold rate limits")
	}
	time.Sleep(30 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("breaker should allow after cooldown")
	}
	cb.OnSuccess()
	if !cb.Allow() {
		t.Fatal("breaker should stay closed after success")
	}
}
