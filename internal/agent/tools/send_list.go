package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/whatsapp"
)

// ListSender abstracts the WhatsApp transport for mocking.
type ListSender interface {
	SendList(msg whatsapp.ListMessage) error
}

type SendListMessageTool struct {
	sender ListSender
	l      pkgLog.Logger
}

func NewSendListMessageTool(sender ListSender, l pkgLog.Logger) *SendListMessageTool {
	return &SendListMessageTool{sender: sender, l: l}
}

func (t *SendListMessageTool) Name() string {
	return "send_list_message"
}

func (t *SendListMessageTool) Description() string {
	return "Sends a WhatsApp interactive list message. Use instead of plain text when presenting multiple items the user might select from (e.g. calendar events, documents, options). Shows a button that opens a scrollable list."
}

func (t *SendListMessageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"body": map[string]interface{}{
				"type":        "string",
				"description": "Main message text above the list button. Max 1024 chars.",
			},
			"button_text": map[string]interface{}{
				"type":        "string",
				"description": `Button label that opens the list. Max 20 chars. E.g. "View Events"`,
			},
			"sections": map[string]interface{}{
				"type":        "array",
				"description": "List sections. Each contains rows.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title": map[string]interface{}{
							"type":        "string",
							"description": "Section header. Required if multiple sections. Max 24 chars.",
						},
						"rows": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"title": map[string]interface{}{
										"type":        "string",
										"description": "Row title. Max 24 chars.",
									},
									"description": map[string]interface{}{
										"type":        "string",
										"description": "Row description. Max 72 chars.",
									},
								},
								"required": []string{"title"},
							},
						},
					},
					"required": []string{"rows"},
				},
			},
			"header": map[string]interface{}{
				"type":        "string",
				"description": "Optional header text. Max 60 chars.",
			},
			"footer": map[string]interface{}{
				"type":        "string",
				"description": "Optional footer text. Max 60 chars.",
			},
		},
		"required": []string{"body", "button_text", "sections"},
	}
}

type SendListMessageInput struct {
	Body       string             `json:"body"`
	ButtonText string             `json:"button_text"`
	Sections   []ListSectionInput `json:"sections"`
	Header     string             `json:"header"`
	Footer     string             `json:"footer"`
}

type ListSectionInput struct {
	Title string         `json:"title"`
	Rows  []ListRowInput `json:"rows"`
}

type ListRowInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (t *SendListMessageTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params SendListMessageInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	sections := make([]whatsapp.ListSection, 0, len(params.Sections))
	for _, section := range params.Sections {
		rows := make([]whatsapp.ListRow, 0, len(section.Rows))
		for _, row := range section.Rows {
			rows = append(rows, whatsapp.ListRow{
				Title:       row.Title,
				Description: row.Description,
			})
		}
		sections = append(sections, whatsapp.ListSection{
			Title: section.Title,
			Rows:  rows,
		})
	}

	t.l.Infof(ctx, "send_list_message: %d sections to %s", len(sections), req.ChatID)

	err := t.sender.SendList(whatsapp.ListMessage{
		To:       req.ChatID,
		Body:     params.Body,
		Button:   params.ButtonText,
		Sections: sections,
		Header:   params.Header,
		Footer:   params.Footer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send list message: %w", err)
	}

	// The list is the reply; the run is complete.
	return &agent.Output{
		Data: map[string]bool{"messageSent": true},
		Done: true,
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*SendListMessageTool)(nil)
