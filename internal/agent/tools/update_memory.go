package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

const maxMemoryLength = 2000

// MemoryWriter persists per-user memory text.
type MemoryWriter interface {
	SetMemory(phone, memory string) error
}

type UpdateMemoryTool struct {
	store MemoryWriter
	l     pkgLog.Logger
}

func NewUpdateMemoryTool(store MemoryWriter, l pkgLog.Logger) *UpdateMemoryTool {
	return &UpdateMemoryTool{store: store, l: l}
}

func (t *UpdateMemoryTool) Name() string {
	return "update_memory"
}

func (t *UpdateMemoryTool) Description() string {
	return "Replaces the user's persistent memory with the provided text. The current memory is shown in the system prompt under USER MEMORY. Call this when the user asks you to remember something, or when you learn persistent facts worth saving (name, timezone, preferences). Always include ALL existing facts you want to keep, because this is a full replacement, not an append."
}

func (t *UpdateMemoryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"memory": map[string]interface{}{
				"type":        "string",
				"description": "The complete updated memory text. Max 2000 characters. Use concise bullet points.",
			},
		},
		"required": []string{"memory"},
	}
}

type UpdateMemoryInput struct {
	Memory string `json:"memory"`
}

func (t *UpdateMemoryTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params UpdateMemoryInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	memory := params.Memory
	if runes := []rune(memory); len(runes) > maxMemoryLength {
		memory = string(runes[:maxMemoryLength])
	}

	t.l.Infof(ctx, "update_memory: %s (%d chars)", req.ChatID, len(memory))

	if err := t.store.SetMemory(req.ChatID, memory); err != nil {
		return nil, fmt.Errorf("failed to update memory: %w", err)
	}

	return &agent.Output{Data: map[string]bool{"updated": true}}, nil
}

// Verify interface compliance
var _ agent.Tool = (*UpdateMemoryTool)(nil)
