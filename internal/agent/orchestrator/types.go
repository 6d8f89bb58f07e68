package orchestrator

import (
	"context"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
)

// Sender delivers plain text replies to a chat.
type Sender interface {
	SendText(to, body string) error
}

// UserStore provides per-user credentials and memory.
type UserStore interface {
	RefreshToken(phone string) (string, error)
	ClearRefreshToken(phone string) error
	Memory(phone string) string
}

// Authenticator bridges the Google OAuth flow: login links for
// unauthenticated users and per-run API clients for authenticated ones.
type Authenticator interface {
	LoginURL(phone string) string
	NewClients(ctx context.Context, refreshToken string) (*agent.GoogleClients, error)
}
