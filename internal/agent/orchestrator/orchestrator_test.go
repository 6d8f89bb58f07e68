package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent/orchestrator"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/conversation"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/user"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
)

const chatID = "84912345678"

// mockLogger
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// scriptedLLM replays a fixed sequence of model replies and records
// every request it saw.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []*claude.Message
	requests []*claude.Request
}

func (s *scriptedLLM) CreateMessage(ctx context.Context, req *claude.Request) (*claude.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return nil, errors.New("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *scriptedLLM) Model() string { return "scripted" }

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// mockSender collects outbound texts on a channel so tests can wait for
// fire-and-forget deliveries.
type mockSender struct {
	ch chan string
}

func newMockSender() *mockSender {
	return &mockSender{ch: make(chan string, 32)}
}

func (m *mockSender) SendText(to, body string) error {
	m.ch <- body
	return nil
}

func (m *mockSender) wait(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-m.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an outbound message")
		return ""
	}
}

// mockUsers
type mockUsers struct {
	mu       sync.Mutex
	token    string
	tokenErr error
	memory   string
	cleared  bool
}

func (m *mockUsers) RefreshToken(phone string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	if m.token == "" {
		return "", user.ErrNoToken
	}
	return m.token, nil
}

func (m *mockUsers) ClearRefreshToken(phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared = true
	return nil
}

func (m *mockUsers) Memory(phone string) string { return m.memory }

// mockAuth
type mockAuth struct{}

func (m *mockAuth) LoginURL(phone string) string {
	return "https://bot.example.com/auth?phone=" + phone
}

func (m *mockAuth) NewClients(ctx context.Context, refreshToken string) (*agent.GoogleClients, error) {
	return &agent.GoogleClients{}, nil
}

// stubTool
type stubTool struct {
	name    string
	mu      sync.Mutex
	calls   []agent.Request
	execute func(req agent.Request) (*agent.Output, error)
}

func (s *stubTool) Name() string                       { return s.name }
func (s *stubTool) Description() string                { return "stub" }
func (s *stubTool) Parameters() map[string]interface{} { return map[string]interface{}{"type": "object"} }
func (s *stubTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.execute != nil {
		return s.execute(req)
	}
	return &agent.Output{Data: map[string]bool{"ok": true}}, nil
}

func (s *stubTool) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func textReply(text string) *claude.Message {
	return &claude.Message{
		Role:    claude.RoleAssistant,
		Content: []claude.ContentBlock{{Type: claude.BlockTypeText, Text: text}},
	}
}

func toolReply(uses ...claude.ContentBlock) *claude.Message {
	return &claude.Message{Role: claude.RoleAssistant, Content: uses}
}

func toolUse(id, name string) claude.ContentBlock {
	return claude.ContentBlock{Type: claude.BlockTypeToolUse, ID: id, Name: name, Input: map[string]interface{}{}}
}

type fixture struct {
	llm    *scriptedLLM
	sender *mockSender
	users  *mockUsers
	conv   *conversation.Store
	orch   *orchestrator.Orchestrator
}

func newFixture(llm *scriptedLLM, tools ...agent.Tool) *fixture {
	registry := agent.NewToolRegistry()
	for _, tool := range tools {
		registry.Register(tool)
	}
	sender := newMockSender()
	users := &mockUsers{token: "refresh-token"}
	conv := conversation.New(&mockLogger{}, conversation.DefaultTTL)
	orch := orchestrator.New(orchestrator.Config{
		LLM:           llm,
		Registry:      registry,
		Conversations: conv,
		Users:         users,
		Auth:          &mockAuth{},
		Sender:        sender,
		Location:      time.UTC,
		Logger:        &mockLogger{},
	})
	return &fixture{llm: llm, sender: sender, users: users, conv: conv, orch: orch}
}

func TestUnauthenticatedUserGetsLoginLink(t *testing.T) {
	f := newFixture(&scriptedLLM{})
	f.users.token = ""

	f.orch.HandleMessage(context.Background(), chatID, "hello")

	msg := f.sender.wait(t)
	if !strings.Contains(msg, "authenticate") || !strings.Contains(msg, chatID) {
		t.Errorf("unexpected reply: %q", msg)
	}
	if f.llm.calls() != 0 {
		t.Error("no LLM call expected for unauthenticated users")
	}
	if len(f.conv.Get(chatID)) != 0 {
		t.Error("conversation history must stay untouched")
	}
}

func TestPlainTextReply(t *testing.T) {
	f := newFixture(&scriptedLLM{replies: []*claude.Message{textReply("Hi there!")}})

	f.orch.HandleMessage(context.Background(), chatID, "hello")

	if got := f.sender.wait(t); got != "Hi there!" {
		t.Errorf("unexpected reply: %q", got)
	}
	history := f.conv.Get(chatID)
	if len(history) != 2 {
		t.Fatalf("expected user+assistant turns, got %d", len(history))
	}
	if history[1].Role != claude.RoleAssistant || history[1].Content[0].Text != "Hi there!" {
		t.Errorf("unexpected assistant turn: %+v", history[1])
	}
}

func TestSystemPromptCarriesMemory(t *testing.T) {
	f := newFixture(&scriptedLLM{replies: []*claude.Message{textReply("ok")}})
	f.users.memory = "- name: Bob"

	f.orch.HandleMessage(context.Background(), chatID, "hello")
	f.sender.wait(t)

	if got := f.llm.requests[0].System; !strings.Contains(got, "USER MEMORY") || !strings.Contains(got, "- name: Bob") {
		t.Errorf("system prompt should embed memory, got %q", got)
	}
}

func TestToolRoundTrip(t *testing.T) {
	tool := &stubTool{name: "list_events"}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "list_events")),
		textReply("You have 2 events."),
	}}, tool)

	f.orch.HandleMessage(context.Background(), chatID, "what's on today?")

	if got := f.sender.wait(t); got != "You have 2 events." {
		t.Errorf("unexpected reply: %q", got)
	}
	if tool.callCount() != 1 {
		t.Fatalf("expected 1 tool call, got %d", tool.callCount())
	}
	if got := tool.calls[0].Invocation.ID; got != "toolu_1" {
		t.Errorf("invocation ID should be the provider's, got %q", got)
	}

	history := f.conv.Get(chatID)
	if len(history) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(history))
	}
	result := history[2].Content[0]
	if result.Type != claude.BlockTypeToolResult || result.ToolUseID != "toolu_1" || result.IsError {
		t.Errorf("unexpected tool result: %+v", result)
	}
}

func TestUnknownToolAbortsBatch(t *testing.T) {
	known := &stubTool{name: "list_events"}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "list_events"), toolUse("toolu_2", "delete_everything")),
	}}, known)

	f.orch.HandleMessage(context.Background(), chatID, "hi")

	if got := f.sender.wait(t); got != "Unknown tool: delete_everything" {
		t.Errorf("unexpected reply: %q", got)
	}
	if known.callCount() != 0 {
		t.Error("no tool may run when any requested tool is unknown")
	}
}

func TestFailedToolBecomesErrorResult(t *testing.T) {
	failing := &stubTool{
		name: "read_doc",
		execute: func(req agent.Request) (*agent.Output, error) {
			return nil, errors.New("failed to read document: not found")
		},
	}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "read_doc")),
		textReply("I couldn't find that document."),
	}}, failing)

	f.orch.HandleMessage(context.Background(), chatID, "read doc xyz")
	f.sender.wait(t)

	history := f.conv.Get(chatID)
	result := history[2].Content[0]
	if !result.IsError || !strings.Contains(result.Content, "not found") {
		t.Errorf("unexpected tool result: %+v", result)
	}
}

func TestPanickingToolBecomesErrorResult(t *testing.T) {
	panicking := &stubTool{
		name: "read_doc",
		execute: func(req agent.Request) (*agent.Output, error) {
			var cache map[string]string
			cache["doc"] = "boom"
			return nil, nil
		},
	}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "read_doc")),
		textReply("That didn't work."),
	}}, panicking)

	f.orch.HandleMessage(context.Background(), chatID, "read doc xyz")

	if got := f.sender.wait(t); got != "That didn't work." {
		t.Errorf("unexpected reply: %q", got)
	}
	history := f.conv.Get(chatID)
	result := history[2].Content[0]
	if !result.IsError || !strings.Contains(result.Content, "panicked") {
		t.Errorf("unexpected tool result: %+v", result)
	}
}

func TestTokenStoreFailureDoesNotAskForReauth(t *testing.T) {
	f := newFixture(&scriptedLLM{})
	f.users.tokenErr = errors.New("database is locked")

	f.orch.HandleMessage(context.Background(), chatID, "hello")

	if got := f.sender.wait(t); got != orchestrator.MsgGenericFailure {
		t.Errorf("unexpected reply: %q", got)
	}
	if f.llm.calls() != 0 {
		t.Error("no LLM call expected when the token store fails")
	}
}

func TestTerminalToolStopsRun(t *testing.T) {
	terminal := &stubTool{
		name: "send_list_message",
		execute: func(req agent.Request) (*agent.Output, error) {
			return &agent.Output{Data: map[string]bool{"messageSent": true}, Done: true}, nil
		},
	}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "send_list_message")),
	}}, terminal)

	f.orch.HandleMessage(context.Background(), chatID, "show my events")

	if f.llm.calls() != 1 {
		t.Errorf("terminal tool should stop the loop, got %d LLM calls", f.llm.calls())
	}
	select {
	case msg := <-f.sender.ch:
		t.Errorf("no text reply expected, got %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUserMessageStopsRun(t *testing.T) {
	confirming := &stubTool{
		name: "create_calendar_event",
		execute: func(req agent.Request) (*agent.Output, error) {
			return &agent.Output{Data: map[string]bool{"ok": true}, UserMessage: "✅ Event created!"}, nil
		},
	}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "create_calendar_event")),
	}}, confirming)

	f.orch.HandleMessage(context.Background(), chatID, "book dentist tomorrow 2pm")

	if got := f.sender.wait(t); got != "✅ Event created!" {
		t.Errorf("unexpected reply: %q", got)
	}
	if f.llm.calls() != 1 {
		t.Errorf("user-visible confirmation should stop the loop, got %d LLM calls", f.llm.calls())
	}
}

func TestToolBudgetExhaustion(t *testing.T) {
	silent := &stubTool{name: "fetch_url"}
	var replies []*claude.Message
	for i := 0; i < orchestrator.MaxToolCalls; i++ {
		replies = append(replies, toolReply(toolUse(fmt.Sprintf("toolu_%d", i), "fetch_url")))
	}
	f := newFixture(&scriptedLLM{replies: replies}, silent)

	f.orch.HandleMessage(context.Background(), chatID, "keep fetching")

	if got := f.sender.wait(t); got != orchestrator.MsgTooManyOperations {
		t.Errorf("unexpected reply: %q", got)
	}
	if silent.callCount() != orchestrator.MaxToolCalls {
		t.Errorf("expected %d tool calls, got %d", orchestrator.MaxToolCalls, silent.callCount())
	}
}

func TestExpiredCredentialUnwindsRun(t *testing.T) {
	revoked := &stubTool{
		name: "list_events",
		execute: func(req agent.Request) (*agent.Output, error) {
			return nil, fmt.Errorf("failed to list events: %w",
				&oauth2.RetrieveError{ErrorCode: "invalid_grant"})
		},
	}
	f := newFixture(&scriptedLLM{replies: []*claude.Message{
		toolReply(toolUse("toolu_1", "list_events")),
	}}, revoked)

	f.orch.HandleMessage(context.Background(), chatID, "what's on today?")

	msg := f.sender.wait(t)
	if !strings.Contains(msg, "re-authenticate") {
		t.Errorf("unexpected reply: %q", msg)
	}
	f.users.mu.Lock()
	cleared := f.users.cleared
	f.users.mu.Unlock()
	if !cleared {
		t.Error("revoked refresh token should be cleared")
	}
	// The failed call still left a paired tool_result in the history.
	history := f.conv.Get(chatID)
	if len(history) != 3 || !history[2].Content[0].IsError {
		t.Errorf("unexpected history after unwinding: %d turns", len(history))
	}
}
