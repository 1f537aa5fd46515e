package tools

import "context"

// Handler executes a tool call and returns a JSON result string.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Tool is a named callable exposed to an agent framework.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
	Handler     Handler
}
