package llm

import (
	"context"

	"github.com/aviv90/audiokit/pkg/tools"
)

// ToolRegistry is the surface an agent loop needs from a tool catalog.
type ToolRegistry interface {
	Tools() []tools.Tool
	Handle(ctx context.Context, name string, args map[string]any) (string, error)
}
