package audiokit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/metrics"
	"github.com/aviv90/audiokit/pkg/tools"
)

type stubToolRegistry struct {
	calls  atomic.Int64
	result string
	errs   []error
	delay  time.Duration
}

func (s *stubToolRegistry) Tools() []tools.Tool { return nil }

func (s *stubToolRegistry) Handle(ctx context.Context, name string, args map[string]any) (string, error) {
	n := s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if int(n) <= len(s.errs) {
		if err := s.errs[n-1]; err != nil {
			return "", err
		}
	}
	return s.result, nil
}

func TestExecutorRetriesThenSucceeds(t *testing.T) {
	registry := &stubToolRegistry{
		result: `{"ok":true}`,
		errs:   []error{errors.New("transient")},
	}
	obs := metrics.NewMemoryObserver()
	exec := NewExecutor(registry, ExecutorOptions{Retries: 2, RetryBackoff: time.Millisecond}, obs)

	out, err := exec.Execute(context.Background(), "transcribe_audio", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("out = %q", out)
	}
	if got := registry.calls.Load(); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
	names := map[string]int{}
	for _, ev := range obs.Events {
		names[ev.Name]++
	}
	if names[metrics.EventToolRetry] != 1 {
		t.Fatalf("retry events = %d, want 1", names[metrics.EventToolRetry])
	}
	if names[metrics.EventToolEnd] != 1 {
		t.Fatalf("end events = %d, want 1", names[metrics.EventToolEnd])
	}
}

func TestExecutorNoRetryOnBadArgs(t *testing.T) {
	registry := &stubToolRegistry{
		errs: []error{errorsx.Wrap(errors.New("missing text"), errorsx.ReasonBadArgs)},
	}
	exec := NewExecutor(registry, ExecutorOptions{Retries: 3, RetryBackoff: time.Millisecond}, nil)

	if _, err := exec.Execute(context.Background(), "text_to_speech", nil); err == nil {
		t.Fatal("expected error")
	}
	if got := registry.calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestExecutorTimeout(t *testing.T) {
	registry := &stubToolRegistry{result: "late", delay: 200 * time.Millisecond}
	obs := metrics.NewMemoryObserver()
	exec := NewExecutor(registry, ExecutorOptions{Timeout: 10 * time.Millisecond}, obs)

	_, err := exec.Execute(context.Background(), "creative_audio_mix", nil)
	if err == nil {
		t.Fatal("expected timeout")
	}
	if !errors.Is(err, ErrToolTimeout) {
		t.Fatalf("err = %v, want tool timeout", err)
	}
	if !errorsx.HasReason(err, errorsx.ReasonToolTimeout) {
		t.Fatalf("reason = %v", errorsx.Reason(err))
	}
}

func TestExecutorContextCancel(t *testing.T) {
	registry := &stubToolRegistry{result: "ok", delay: 200 * time.Millisecond}
	exec := NewExecutor(registry, ExecutorOptions{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if _, err := exec.Execute(ctx, "translate_text", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
