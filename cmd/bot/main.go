package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hugodowson2242/whatsapp-calendar-bot/config"
	_ "github.com/hugodowson2242/whatsapp-calendar-bot/docs" // Swagger docs
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent/orchestrator"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent/tools"
	chatDelivery "github.com/hugodowson2242/whatsapp-calendar-bot/internal/chat/delivery/whatsapp"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/conversation"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/draft"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/googleauth"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/httpserver"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/serializer"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/user"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/whatsapp"
)

// googleAuthenticator adapts the OAuth flow to the orchestrator: it
// hands out login links and builds the per-run Google client set.
type googleAuthenticator struct {
	flow *googleauth.Flow
}

func (a *googleAuthenticator) LoginURL(phone string) string {
	return a.flow.LoginURL(phone)
}

func (a *googleAuthenticator) NewClients(ctx context.Context, refreshToken string) (*agent.GoogleClients, error) {
	clients, err := a.flow.NewClients(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &agent.GoogleClients{
		Calendar: clients.Calendar,
		Docs:     clients.Docs,
		Gmail:    clients.Gmail,
	}, nil
}

// @title       WhatsApp Calendar Bot API
// @description Claude-powered WhatsApp assistant for Google Calendar, Docs, and Gmail.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx := context.Background()

	logger.Info(ctx, "Starting WhatsApp Calendar Bot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	users, err := user.NewStore(cfg.Database.Path)
	if err != nil {
		logger.Error(ctx, "Failed to open user store: ", err)
		return
	}
	defer users.Close()

	conversations := conversation.New(logger, conversation.DefaultTTL)
	drafts := draft.New(draft.DefaultTTL)

	// 4. Outbound clients
	bot := whatsapp.NewBot(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID)

	llm, err := claude.New(claude.Config{
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize Claude client: ", err)
		return
	}
	logger.Infof(ctx, "Claude model: %s", llm.Model())

	flow := googleauth.NewFlow(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Bot.BaseURL, users)

	// 5. Agent timezone for naive datetimes and the prompt clock
	location, err := time.LoadLocation(cfg.Bot.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Bot.Timezone, err)
		location = time.UTC
	}

	// 6. Tool registry
	registry := agent.NewToolRegistry()
	registry.Register(tools.NewCreateEventTool(users, location, logger))
	registry.Register(tools.NewListEventsTool(users, location, logger))
	registry.Register(tools.NewCreateDocTool(logger))
	registry.Register(tools.NewReadDocTool(logger))
	registry.Register(tools.NewAppendDocTool(logger))
	registry.Register(tools.NewReplaceDocTool(logger))
	registry.Register(tools.NewSearchDocsTool(logger))
	registry.Register(tools.NewFetchURLTool(&http.Client{Timeout: 30 * time.Second}, logger))
	registry.Register(tools.NewSendListMessageTool(bot, logger))
	registry.Register(tools.NewSearchEmailsTool(logger))
	registry.Register(tools.NewDraftEmailTool(drafts, logger))
	registry.Register(tools.NewSendEmailTool(drafts, logger))
	registry.Register(tools.NewCancelEmailTool(drafts, logger))
	registry.Register(tools.NewUpdateMemoryTool(users, logger))

	// 7. Orchestrator
	orch := orchestrator.New(orchestrator.Config{
		LLM:           llm,
		Registry:      registry,
		Conversations: conversations,
		Users:         users,
		Auth:          &googleAuthenticator{flow: flow},
		Sender:        bot,
		Location:      location,
		Logger:        logger,
	})

	// 8. Webhook delivery
	webhookHandler := chatDelivery.NewHandler(orch, chatDelivery.SecurityConfig{
		VerifyToken:     cfg.WhatsApp.VerifyToken,
		AppSecret:       cfg.WhatsApp.AppSecret,
		RateLimitPerMin: cfg.WhatsApp.RateLimitPerMin,
	}, serializer.New(), logger)

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		AuthFlow:       flow,
		BotPhoneNumber: cfg.WhatsApp.BotPhoneNumber,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
