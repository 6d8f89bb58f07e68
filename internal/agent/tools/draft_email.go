package tools

import (
	"context"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/draft"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type DraftEmailTool struct {
	drafts *draft.Store
	l      pkgLog.Logger
}

func NewDraftEmailTool(drafts *draft.Store, l pkgLog.Logger) *DraftEmailTool {
	return &DraftEmailTool{drafts: drafts, l: l}
}

func (t *DraftEmailTool) Name() string {
	return "draft_email"
}

func (t *DraftEmailTool) Description() string {
	return "Saves an email draft. After calling this, present the full draft (to, subject, body) to the user and ask for explicit confirmation before calling send_email."
}

func (t *DraftEmailTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"to": map[string]interface{}{
				"type":        "string",
				"description": "Recipient email address",
			},
			"subject": map[string]interface{}{
				"type":        "string",
				"description": "Email subject line",
			},
			"body": map[string]interface{}{
				"type":        "string",
				"description": "Email body (plain text)",
			},
			"thread_id": map[string]interface{}{
				"type":        "string",
				"description": "Gmail thread ID to reply in (optional)",
			},
		},
		"required": []string{"to", "subject", "body"},
	}
}

type DraftEmailInput struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	ThreadID string `json:"thread_id"`
}

func (t *DraftEmailTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params DraftEmailInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	t.l.Infof(ctx, "draft_email: to %s, subject %q", params.To, params.Subject)

	t.drafts.Save(req.ChatID, draft.Draft{
		To:           params.To,
		Subject:      params.Subject,
		Body:         params.Body,
		ThreadID:     params.ThreadID,
		InvocationID: req.Invocation.ID,
	})

	return &agent.Output{Data: params}, nil
}

// Verify interface compliance
var _ agent.Tool = (*DraftEmailTool)(nil)
