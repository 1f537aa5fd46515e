package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aviv90/audiokit/pkg/llm"
	"github.com/aviv90/audiokit/pkg/resilience"
)

func TestGenerateParsesChatCompletion(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{
				"message":       map[string]any{"content": "hi"},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 1, "total_tokens": 4},
		})
	}))
	defer srv.Close()

	a := NewAdapter("key", "gpt-4o-mini")
	a.BaseURL = srv.URL

	resp, err := a.Generate(context.Background(), llm.Request{
		System:   "be brief",
		Messages: []llm.Message{{Role: "user", Content: "hello"}},
		JSONOnly: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "hi" || resp.FinishReason != "stop" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Usage.TotalTokens != 4 {
		t.Fatalf("expected usage parsed, got %+v", resp.Usage)
	}
	if _, ok := gotBody["response_format"]; !ok {
		t.Fatalf("expected response_format for json-only request")
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
}

func TestGenerateRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAdapter("key", "")
	a.BaseURL = srv.URL

	_, err := a.Generate(context.Background(), llm.Request{Messages: []llm.Message{{Role: "user", Content: "x"}}})
	if !resilience.IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestGenerateEmptyRequest(t *testing.T) {
	a := NewAdapter("key", "")
	if _, err := a.Generate(context.Background(), llm.Request{}); err == nil {
		t.Fatalf("expected error for empty request")
	}
}
