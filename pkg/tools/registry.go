package tools

import (
	"context"
	"fmt"

	"github.com/aviv90/audiokit/pkg/errorsx"
)

// Registry is an immutable, ordered mapping from tool name to tool.
// The map is the canonical representation: named lookups (Get, Handle) and
// the aggregate views (Tools, Names) read the same underlying entries.
type Registry struct {
	order  []string
	byName map[string]Tool
}

// NewRegistry composes a registry from the given tools. Composition fails on
// an empty name, a duplicate name, or a missing handler; no partial registry
// is ever returned.
func NewRegistry(list ...Tool) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(list)),
		byName: make(map[string]Tool, len(list)),
	}
	for _, t := range list {
		if t.Name == "" {
			return nil, errorsx.Wrap(fmt.Errorf("tool with empty name"), errorsx.ReasonCompose)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, errorsx.Wrap(fmt.Errorf("duplicate tool name: %s", t.Name), errorsx.ReasonCompose)
		}
		if t.Handler == nil {
			return nil, errorsx.Wrap(fmt.Errorf("tool %s has no handler", t.Name), errorsx.ReasonCompose)
		}
		r.order = append(r.order, t.Name)
		r.byName[t.Name] = t
	}
	return r, nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Handle invokes the named tool. Unknown names are reported with
// ReasonToolNotFound.
func (r *Registry) Handle(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		return "", errorsx.Wrap(fmt.Errorf("tool not registered: %s", name), errorsx.ReasonToolNotFound)
	}
	return t.Handler(ctx, args)
}
