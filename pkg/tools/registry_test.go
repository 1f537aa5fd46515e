package tools

import (
	"context"
	"testing"

	"github.com/aviv90/audiokit/pkg/errorsx"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: name,
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return name, nil
		},
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	reg, err := NewRegistry(echoTool("b"), echoTool("a"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("expected registration order preserved, got %v", names)
	}
	if _, ok := reg.Get("a"); !ok {
		t.Fatalf("expected lookup to succeed")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected len 2, got %d", reg.Len())
	}
}

func TestRegistryNamedAndAggregateAgree(t *testing.T) {
	reg, err := NewRegistry(echoTool("x"), echoTool("y"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	for _, agg := range reg.Tools() {
		named, ok := reg.Get(agg.Name)
		if !ok {
			t.Fatalf("aggregate tool %s missing from named lookup", agg.Name)
		}
		aggOut, _ := agg.Handler(context.Background(), nil)
		namedOut, _ := named.Handler(context.Background(), nil)
		if aggOut != namedOut {
			t.Fatalf("tool %s: named and aggregate forms disagree", agg.Name)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(echoTool("a"), echoTool("a"))
	if !errorsx.HasReason(err, errorsx.ReasonCompose) {
		t.Fatalf("expected compose failure, got %v", err)
	}
}

func TestRegistryRejectsMissingHandler(t *testing.T) {
	_, err := NewRegistry(Tool{Name: "broken"})
	if !errorsx.HasReason(err, errorsx.ReasonCompose) {
		t.Fatalf("expected compose failure, got %v", err)
	}
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(Tool{Handler: func(ctx context.Context, args map[string]any) (string, error) { return "", nil }})
	if !errorsx.HasReason(err, errorsx.ReasonCompose) {
		t.Fatalf("expected compose failure, got %v", err)
	}
}

func TestHandleUnknownTool(t *testing.T) {
	reg, err := NewRegistry(echoTool("a"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	_, err = reg.Handle(context.Background(), "nope", nil)
	if !errorsx.HasReason(err, errorsx.ReasonToolNotFound) {
		t.Fatalf("expected tool not found, got %v", err)
	}
}

func TestHandleDispatches(t *testing.T) {
	reg, err := NewRegistry(echoTool("a"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	out, err := reg.Handle(context.Background(), "a", nil)
	if err != nil || out != "a" {
		t.Fatalf("expected dispatch to a, got %q %v", out, err)
	}
}
