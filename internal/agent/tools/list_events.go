package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gcalendar"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type ListEventsTool struct {
	calendars CalendarIDResolver
	location  *time.Location
	l         pkgLog.Logger
}

func NewListEventsTool(calendars CalendarIDResolver, location *time.Location, l pkgLog.Logger) *ListEventsTool {
	if location == nil {
		location = time.UTC
	}
	return &ListEventsTool{
		calendars: calendars,
		location:  location,
		l:         l,
	}
}

func (t *ListEventsTool) Name() string {
	return "list_events"
}

func (t *ListEventsTool) Description() string {
	return "Lists calendar events within a time range"
}

func (t *ListEventsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_date": map[string]interface{}{
				"type":        "string",
				"description": "ISO 8601 start datetime (e.g., 2024-01-15T00:00:00)",
			},
			"end_date": map[string]interface{}{
				"type":        "string",
				"description": "ISO 8601 end datetime (e.g., 2024-01-16T00:00:00)",
			},
		},
		"required": []string{"start_date", "end_date"},
	}
}

type ListEventsInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ListedEvent struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

func (t *ListEventsTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params ListEventsInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	timeMin, err := parseDateTime(params.StartDate, t.location)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	timeMax, err := parseDateTime(params.EndDate, t.location)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}

	t.l.Infof(ctx, "list_events: %s to %s", params.StartDate, params.EndDate)

	events, err := req.Google.Calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: t.calendars.CalendarID(req.ChatID),
		TimeMin:    timeMin,
		TimeMax:    timeMax,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	listed := make([]ListedEvent, 0, len(events))
	for _, event := range events {
		title := event.Summary
		if title == "" {
			title = "(No title)"
		}
		listed = append(listed, ListedEvent{
			Title:       title,
			Start:       event.StartTime.In(t.location).Format(time.RFC3339),
			End:         event.EndTime.In(t.location).Format(time.RFC3339),
			Description: event.Description,
		})
	}

	return &agent.Output{Data: listed}, nil
}

// Verify interface compliance
var _ agent.Tool = (*ListEventsTool)(nil)
