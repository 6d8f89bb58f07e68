package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type CreateDocTool struct {
	l pkgLog.Logger
}

func NewCreateDocTool(l pkgLog.Logger) *CreateDocTool {
	return &CreateDocTool{l: l}
}

func (t *CreateDocTool) Name() string {
	return "create_doc"
}

func (t *CreateDocTool) Description() string {
	return "Creates a new Google Doc"
}

func (t *CreateDocTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "The title of the document",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Optional initial content for the document",
			},
		},
		"required": []string{"title"},
	}
}

type CreateDocInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (t *CreateDocTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params CreateDocInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	t.l.Infof(ctx, "create_doc: %q", params.Title)

	doc, err := req.Google.Docs.Create(ctx, params.Title, params.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return &agent.Output{
		Data:        doc,
		UserMessage: fmt.Sprintf("📝 Document created!\n\n*%s*\n\n%s", doc.Title, doc.URL),
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*CreateDocTool)(nil)
