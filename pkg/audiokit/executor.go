package audiokit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/llm"
	"github.com/aviv90/audiokit/pkg/logging"
	"github.com/aviv90/audiokit/pkg/metrics"
	"github.com/google/uuid"
)

// Executor runs tool invocations with a bounded worker budget, per-call
// timeouts and retries.
type Executor struct {
	registry llm.ToolRegistry
	opts     ExecutorOptions
	observer metrics.Observer
	logger   *slog.Logger

	sem chan struct{}

	mu        sync.Mutex
	toolLocks map[string]*sync.Mutex
}

type ExecutorOptions struct {
	Concurrency  int
	Timeout      time.Duration
	Retries      int
	RetryBackoff time.Duration
	// SerializeByTool runs invocations of the same tool one at a time.
	SerializeByTool bool
}

var ErrToolTimeout = errors.New("tool timeout")

func NewExecutor(registry llm.ToolRegistry, opts ExecutorOptions, observer metrics.Observer) *Executor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 150 * time.Millisecond
	}
	if observer == nil {
		observer = metrics.NoopObserver{}
	}
	return &Executor{
		registry:  registry,
		opts:      opts,
		observer:  observer,
		logger:    logging.NewComponentLogger(slog.Default(), "executor"),
		sem:       make(chan struct{}, opts.Concurrency),
		toolLocks: make(map[string]*sync.Mutex),
	}
}

// Execute runs one tool invocation and returns its JSON result.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	if e.registry == nil {
		return "", errors.New("missing registry")
	}
	invocationID := uuid.NewString()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-e.sem }()

	start := time.Now()
	e.observer.RecordEvent(metrics.ToolEvent(metrics.EventToolStart, name, invocationID, 0))

	var result string
	var err error
	if e.opts.SerializeByTool {
		lock := e.toolLock(name)
		lock.Lock()
		result, err = e.callWithRetry(ctx, name, args, invocationID)
		lock.Unlock()
	} else {
		result, err = e.callWithRetry(ctx, name, args, invocationID)
	}

	elapsed := time.Since(start)
	switch {
	case err == nil:
		e.observer.RecordEvent(metrics.ToolEvent(metrics.EventToolEnd, name, invocationID, elapsed))
	case errors.Is(err, ErrToolTimeout):
		e.observer.RecordEvent(metrics.ToolEvent(metrics.EventToolTimeout, name, invocationID, elapsed))
	default:
		e.observer.RecordEvent(metrics.ToolEvent(metrics.EventToolError, name, invocationID, elapsed))
	}
	if err != nil {
		e.logger.Warn("tool invocation failed",
			slog.String("tool", name),
			slog.String("invocation_id", invocationID),
			slog.String("error", err.Error()))
		return "", err
	}
	e.logger.Debug("tool invocation ok",
		slog.String("tool", name),
		slog.String("invocation_id", invocationID),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()))
	return result, nil
}

func (e *Executor) callWithRetry(ctx context.Context, name string, args map[string]any, invocationID string) (string, error) {
	attempts := e.opts.Retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := e.callWithTimeout(ctx, name, args)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errorsx.HasReason(err, errorsx.ReasonBadArgs) {
			break
		}
		if i < attempts-1 {
			e.observer.RecordEvent(metrics.ToolEvent(metrics.EventToolRetry, name, invocationID, 0))
			select {
			case <-time.After(e.opts.RetryBackoff * time.Duration(i+1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if lastErr == nil {
		lastErr = errors.New("tool error")
	}
	return "", lastErr
}

func (e *Executor) callWithTimeout(ctx context.Context, name string, args map[string]any) (string, error) {
	if e.opts.Timeout <= 0 {
		return e.registry.Handle(ctx, name, args)
	}
	callCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		res, err := e.registry.Handle(callCtx, name, args)
		ch <- result{text: res, err: err}
	}()
	select {
	case out := <-ch:
		return out.text, out.err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errorsx.Wrap(ErrToolTimeout, errorsx.ReasonToolTimeout)
	}
}

func (e *Executor) toolLock(name string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.toolLocks[name]
	if !ok {
		lock = &sync.Mutex{}
		e.toolLocks[name] = lock
	}
	return lock
}
