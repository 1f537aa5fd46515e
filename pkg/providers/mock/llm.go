package mock

import (
	"context"

	"github.com/aviv90/audiokit/pkg/llm"
)

type LLMConfig struct {
	Reply string
	Err   error
}

// LLM returns a canned reply for any request.
type LLM struct {
	cfg      LLMConfig
	Requests []llm.Request
}

func NewLLM(cfg LLMConfig) *LLM {
	if cfg.Reply == "" {
		cfg.Reply = "mock reply"
	}
	return &LLM{cfg: cfg}
}

func (m *LLM) Name() string { return "mock_llm" }

func (m *LLM) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.cfg.Err != nil {
		return llm.Response{}, m.cfg.Err
	}
	return llm.Response{Text: m.cfg.Reply, FinishReason: "stop"}, nil
}

var _ llm.Adapter = (*LLM)(nil)
