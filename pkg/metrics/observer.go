package metrics

import "time"

// Event names emitted by the suite and providers.
const (
	EventToolStart   = "tool_start"
	EventToolEnd     = "tool_end"
	EventToolError   = "tool_error"
	EventToolTimeout = "tool_timeout"
	EventToolRetry   = "tool_retry"

	EventRateLimit     = "rate_limit"
	EventBreakerOpen   = "breaker_open"
	EventBreakerClose  = "breaker_close"
	EventBreakerDenied = "breaker_denied"
)

type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

type Flusher interface {
	Flush() error
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}

// ToolEvent builds a tool invocation event tagged with the tool name and
// invocation id. Value carries the elapsed milliseconds for end events.
func ToolEvent(name, tool, invocationID string, elapsed time.Duration) MetricsEvent {
	return MetricsEvent{
		Name:  name,
		Time:  time.Now(),
		Value: float64(elapsed.Milliseconds()),
		Tags: map[string]string{
			"tool":          tool,
			"invocation_id": invocationID,
		},
	}
}
