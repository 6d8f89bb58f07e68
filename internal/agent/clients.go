package agent

import (
	"context"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gcalendar"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gdocs"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gmail"
)

// CalendarClient abstracts the Google Calendar API for mocking.
type CalendarClient interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
}

// DocsClient abstracts the Google Docs and Drive APIs for mocking.
type DocsClient interface {
	Create(ctx context.Context, title, content string) (*gdocs.DocInfo, error)
	Read(ctx context.Context, documentID string) (*gdocs.DocContent, error)
	Append(ctx context.Context, documentID, content string) error
	Replace(ctx context.Context, documentID, content string) error
	Search(ctx context.Context, query string, maxResults int64) ([]gdocs.SearchResult, error)
}

// GmailClient abstracts the Gmail API for mocking.
type GmailClient interface {
	Search(ctx context.Context, query string, maxResults int64) ([]gmail.EmailSummary, error)
	Send(ctx context.Context, req gmail.SendRequest) (*gmail.SendResult, error)
}

// GoogleClients is the per-run Google API client set handed to tools.
type GoogleClients struct {
	Calendar CalendarClient
	Docs     DocsClient
	Gmail    GmailClient
}
