package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/draft"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gmail"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type SendEmailTool struct {
	drafts *draft.Store
	l      pkgLog.Logger
}

func NewSendEmailTool(drafts *draft.Store, l pkgLog.Logger) *SendEmailTool {
	return &SendEmailTool{drafts: drafts, l: l}
}

func (t *SendEmailTool) Name() string {
	return "send_email"
}

func (t *SendEmailTool) Description() string {
	return "Sends the previously drafted email. Only call this after the user has explicitly confirmed they want to send."
}

func (t *SendEmailTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

type SendEmailOutput struct {
	MessageID string `json:"messageId"`
	ThreadID  string `json:"threadId"`
}

func (t *SendEmailTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	d, err := t.drafts.Pending(req.ChatID, req.Invocation.ID)
	if err != nil {
		switch {
		case errors.Is(err, draft.ErrNoDraft):
			return nil, errors.New("no pending email draft found, or the draft has expired. Use draft_email first")
		case errors.Is(err, draft.ErrSameInvocation):
			return nil, errors.New("cannot send an email in the same turn it was drafted. The user must confirm first")
		default:
			return nil, err
		}
	}

	t.l.Infof(ctx, "send_email: to %s, subject %q", d.To, d.Subject)

	result, err := req.Google.Gmail.Send(ctx, gmail.SendRequest{
		To:       d.To,
		Subject:  d.Subject,
		Body:     d.Body,
		ThreadID: d.ThreadID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	t.drafts.Clear(req.ChatID)

	return &agent.Output{
		Data:        SendEmailOutput{MessageID: result.MessageID, ThreadID: result.ThreadID},
		UserMessage: fmt.Sprintf("Email sent to %s.", d.To),
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*SendEmailTool)(nil)
