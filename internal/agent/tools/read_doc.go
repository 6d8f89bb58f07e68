package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type ReadDocTool struct {
	l pkgLog.Logger
}

func NewReadDocTool(l pkgLog.Logger) *ReadDocTool {
	return &ReadDocTool{l: l}
}

func (t *ReadDocTool) Name() string {
	return "read_doc"
}

func (t *ReadDocTool) Description() string {
	return "Reads the content of a Google Doc"
}

func (t *ReadDocTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"document_id": map[string]interface{}{
				"type":        "string",
				"description": "The Google Doc ID (found in the document URL)",
			},
		},
		"required": []string{"document_id"},
	}
}

type ReadDocInput struct {
	DocumentID string `json:"document_id"`
}

func (t *ReadDocTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params ReadDocInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	t.l.Infof(ctx, "read_doc: %s", params.DocumentID)

	doc, err := req.Google.Docs.Read(ctx, params.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return &agent.Output{Data: doc}, nil
}

// Verify interface compliance
var _ agent.Tool = (*ReadDocTool)(nil)
