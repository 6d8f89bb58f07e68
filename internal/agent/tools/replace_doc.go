package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type ReplaceDocTool struct {
	l pkgLog.Logger
}

func NewReplaceDocTool(l pkgLog.Logger) *ReplaceDocTool {
	return &ReplaceDocTool{l: l}
}

func (t *ReplaceDocTool) Name() string {
	return "replace_doc_content"
}

func (t *ReplaceDocTool) Description() string {
	return "Replaces the entire content of a Google Doc. Use this for transformations like reformatting, converting units, restructuring, or any bulk edit. First read the doc, transform the content, then replace."
}

func (t *ReplaceDocTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"document_id": map[string]interface{}{
				"type":        "string",
				"description": "The Google Doc ID (found in the document URL)",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "The new content to replace the entire document with",
			},
		},
		"required": []string{"document_id", "content"},
	}
}

type ReplaceDocInput struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
}

func (t *ReplaceDocTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params ReplaceDocInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	t.l.Infof(ctx, "replace_doc_content: %s (%d chars)", params.DocumentID, len(params.Content))

	if err := req.Google.Docs.Replace(ctx, params.DocumentID, params.Content); err != nil {
		return nil, fmt.Errorf("failed to replace document content: %w", err)
	}

	return &agent.Output{
		Data:        map[string]bool{"replaced": true},
		UserMessage: "✅ Document content replaced.",
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*ReplaceDocTool)(nil)
