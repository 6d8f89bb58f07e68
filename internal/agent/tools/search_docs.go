package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

const maxDocSearchResults = 10

type SearchDocsTool struct {
	l pkgLog.Logger
}

func NewSearchDocsTool(l pkgLog.Logger) *SearchDocsTool {
	return &SearchDocsTool{l: l}
}

func (t *SearchDocsTool) Name() string {
	return "search_docs"
}

func (t *SearchDocsTool) Description() string {
	return "Searches Google Docs by content or title"
}

func (t *SearchDocsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search query to find documents",
			},
		},
		"required": []string{"query"},
	}
}

type SearchDocsInput struct {
	Query string `json:"query"`
}

func (t *SearchDocsTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params SearchDocsInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	t.l.Infof(ctx, "search_docs: %q", params.Query)

	results, err := req.Google.Docs.Search(ctx, params.Query, maxDocSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	return &agent.Output{Data: results}, nil
}

// Verify interface compliance
var _ agent.Tool = (*SearchDocsTool)(nil)
