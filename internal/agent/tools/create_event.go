package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gcalendar"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

type CreateEventTool struct {
	calendars CalendarIDResolver
	location  *time.Location
	l         pkgLog.Logger
}

func NewCreateEventTool(calendars CalendarIDResolver, location *time.Location, l pkgLog.Logger) *CreateEventTool {
	if location == nil {
		location = time.UTC
	}
	return &CreateEventTool{
		calendars: calendars,
		location:  location,
		l:         l,
	}
}

func (t *CreateEventTool) Name() string {
	return "create_calendar_event"
}

func (t *CreateEventTool) Description() string {
	return "Creates a new event on Google Calendar"
}

func (t *CreateEventTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "The title/name of the event",
			},
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "ISO 8601 datetime for when the event starts (e.g., 2024-01-15T14:00:00)",
			},
			"duration_minutes": map[string]interface{}{
				"type":        "number",
				"description": "Duration of the event in minutes (default: 60)",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Optional description for the event",
			},
		},
		"required": []string{"title", "start_time"},
	}
}

type CreateEventInput struct {
	Title           string  `json:"title"`
	StartTime       string  `json:"start_time"`
	DurationMinutes float64 `json:"duration_minutes"`
	Description     string  `json:"description"`
}

type CreateEventOutput struct {
	EventLink       string `json:"eventLink"`
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (t *CreateEventTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params CreateEventInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}
	if params.DurationMinutes <= 0 {
		params.DurationMinutes = 60
	}

	start, err := parseDateTime(params.StartTime, t.location)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	duration := time.Duration(params.DurationMinutes) * time.Minute

	t.l.Infof(ctx, "create_calendar_event: %q at %s for %s", params.Title, start, duration)

	event, err := req.Google.Calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  t.calendars.CalendarID(req.ChatID),
		Summary:     params.Title,
		Description: params.Description,
		StartTime:   start,
		EndTime:     start.Add(duration),
		Timezone:    t.location.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	confirmation := fmt.Sprintf("✅ Event created!\n\n*%s*\n%s\n%d minutes\n\n%s",
		params.Title,
		start.In(t.location).Format("Mon, 2 Jan 2006 15:04"),
		int(params.DurationMinutes),
		event.HtmlLink,
	)

	return &agent.Output{
		Data: CreateEventOutput{
			EventLink:       event.HtmlLink,
			Title:           params.Title,
			StartTime:       params.StartTime,
			DurationMinutes: int(params.DurationMinutes),
		},
		UserMessage: confirmation,
	}, nil
}

// Verify interface compliance
var _ agent.Tool = (*CreateEventTool)(nil)
