package orchestrator

import (
	"time"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/conversation"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

// Config wires the orchestrator's collaborators.
type Config struct {
	LLM           claude.IClaude
	Registry      *agent.ToolRegistry
	Conversations *conversation.Store
	Users         UserStore
	Auth          Authenticator
	Sender        Sender
	Location      *time.Location
	Logger        pkgLog.Logger
}

type Orchestrator struct {
	llm           claude.IClaude
	registry      *agent.ToolRegistry
	conversations *conversation.Store
	users         UserStore
	auth          Authenticator
	sender        Sender
	location      *time.Location
	now           func() time.Time
	l             pkgLog.Logger
}

func New(cfg Config) *Orchestrator {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Orchestrator{
		llm:           cfg.LLM,
		registry:      cfg.Registry,
		conversations: cfg.Conversations,
		users:         cfg.Users,
		auth:          cfg.Auth,
		sender:        cfg.Sender,
		location:      loc,
		now:           time.Now,
		l:             cfg.Logger,
	}
}
