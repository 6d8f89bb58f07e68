package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type AppendDocTool struct {
	l pkgLog.Logger
}

func NewAppendDocTool(l pkgLog.Logger) *AppendDocTool {
	return &AppendDocTool{l: l}
}

func (t *AppendDocTool) Name() string {
	return "append_to_doc"
}

func (t *AppendDocTool) Description() string {
	return "Appends text to the end of a Google Doc"
}

func (t *AppendDocTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"document_id": map[string]interface{}{
				"type":        "string",
				"description": "The Google Doc ID (found in the document URL)",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The text to append to the document",
			},
		},
		"required": []string{"document_id", "text"},
	}
}

type AppendDocInput struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

func (t *AppendDocTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params AppendDocInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	t.l.Infof(ctx, "append_to_doc: %s (%d chars)", params.DocumentID, len(params.Text))

	if err := req.Google.Docs.Append(ctx, params.DocumentID, params.Text); err != nil {
		return nil, fmt.Errorf("failed to append to document: %w", err)
	}

	return &agent.Output{
		Data:        map[string]bool{"appended": true},
		UserMessage: "✅ Added to document.",
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*AppendDocTool)(nil)
