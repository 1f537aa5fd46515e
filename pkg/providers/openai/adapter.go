package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/aviv90/audiokit/pkg/llm"
	"github.com/aviv90/audiokit/pkg/resilience"
)

type Adapter struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func NewAdapter(apiKey, model string) *Adapter {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Adapter{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://api.openai.com/v1",
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Adapter) Name() string { return "openai" }

func (a *Adapter) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	body, err := a.buildRequest(req)
	if err != nil {
		return llm.Response{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(httpReq)
	if err != nil {
		return llm.Response{}, errorsx.Wrap(err, errorsx.ReasonTranslate)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return llm.Response{}, resilience.RateLimitError{Provider: a.Name(), Message: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return llm.Response{}, fmt.Errorf("openai status %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return llm.Response{}, err
	}
	return parseResponse(raw)
}

func (a *Adapter) buildRequest(req llm.Request) ([]byte, error) {
	messages := make([]map[string]any, 0, len(req.Messages)+1)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, map[string]any{"role": "system", "content": req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, map[string]any{"role": m.Role, "content": m.Content})
	}
	if len(messages) == 0 {
		return nil, errors.New("empty request")
	}
	payload := map[string]any{
		"model":    a.Model,
		"messages": messages,
	}
	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	if req.JSONOnly {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}
	return json.Marshal(payload)
}

func parseResponse(raw map[string]any) (llm.Response, error) {
	choices, _ := raw["choices"].([]any)
	if len(choices) == 0 {
		return llm.Response{}, errors.New("no choices")
	}
	first, _ := choices[0].(map[string]any)
	msg, _ := first["message"].(map[string]any)
	content, _ := msg["content"].(string)
	out := llm.Response{Text: content}
	if reason, _ := first["finish_reason"].(string); reason != "" {
		out.FinishReason = reason
	}
	if usage, ok := raw["usage"].(map[string]any); ok {
		out.Usage = llm.Usage{
			PromptTokens:     intValue(usage["prompt_tokens"]),
			CompletionTokens: intValue(usage["completion_tokens"]),
			TotalTokens:      intValue(usage["total_tokens"]),
		}
	}
	return out, nil
}

func intValue(v any) int {
	f, _ := v.(float64)
	return int(f)
}

var _ llm.Adapter = (*Adapter)(nil)
