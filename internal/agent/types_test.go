package agent_test

import (
	"context"
	"testing"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
)

type mockTool struct {
	name        string
	description string
	params      map[string]interface{}
}

func (m *mockTool) Name() string                       { return m.name }
func (m *mockTool) Description() string                { return m.description }
func (m *mockTool) Parameters() map[string]interface{} { return m.params }
func (m *mockTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	return &agent.Output{}, nil
}

func TestToolRegistry(t *testing.T) {
	registry := agent.NewToolRegistry()

	tool1 := &mockTool{name: "tool1", description: "desc1", params: nil}
	tool2 := &mockTool{name: "tool2", description: "desc2"}

	registry.Register(tool1)
	registry.Register(tool2)

	t.Run("Get existing tool", func(t *testing.T) {
		got, ok := registry.Get("tool1")
		if !ok || got.Name() != "tool1" {
			t.Errorf("expected tool1 to be found")
		}
	})

	t.Run("Get non-existing tool", func(t *testing.T) {
		_, ok := registry.Get("missing")
		if ok {
			t.Errorf("expected 'missing' tool to not be found")
		}
	})

	t.Run("List preserves registration order", func(t *testing.T) {
		tools := registry.List()
		if len(tools) != 2 {
			t.Fatalf("expected 2 tools, got %d", len(tools))
		}
		if tools[0].Name() != "tool1" || tools[1].Name() != "tool2" {
			t.Errorf("unexpected order: %s, %s", tools[0].Name(), tools[1].Name())
		}
	})

	t.Run("ToolDefinitions", func(t *testing.T) {
		defs := registry.ToolDefinitions()
		if len(defs) != 2 {
			t.Fatalf("expected 2 tools, got %d", len(defs))
		}
		if defs[0].Name != "tool1" || defs[0].Description != "desc1" {
			t.Errorf("unexpected first definition: %+v", defs[0])
		}
	})

	t.Run("Re-register replaces without duplicating", func(t *testing.T) {
		registry.Register(&mockTool{name: "tool1", description: "updated"})
		if got := len(registry.List()); got != 2 {
			t.Fatalf("expected 2 tools after re-register, got %d", got)
		}
		got, _ := registry.Get("tool1")
		if got.Description() != "updated" {
			t.Errorf("expected replacement, got %q", got.Description())
		}
	})
}
