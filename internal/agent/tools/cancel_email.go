package tools

import (
	"context"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/draft"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type CancelEmailTool struct {
	drafts *draft.Store
	l      pkgLog.Logger
}

func NewCancelEmailTool(drafts *draft.Store, l pkgLog.Logger) *CancelEmailTool {
	return &CancelEmailTool{drafts: drafts, l: l}
}

func (t *CancelEmailTool) Name() string {
	return "cancel_email"
}

func (t *CancelEmailTool) Description() string {
	return "Cancels the pending email draft. Use when the user decides not to send."
}

func (t *CancelEmailTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

func (t *CancelEmailTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	t.l.Infof(ctx, "cancel_email: %s", req.ChatID)
	t.drafts.Clear(req.ChatID)
	return &agent.Output{Data: map[string]bool{"cancelled": true}}, nil
}

// Verify interface compliance
var _ agent.Tool = (*CancelEmailTool)(nil)
