package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	// JSONOnly asks the provider to constrain output to a single JSON object.
	JSONOnly bool
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Text         string
	Usage        Usage
	FinishReason string
}

type Adapter interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}
