package whatsapp_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	delivery "github.com/hugodowson2242/whatsapp-calendar-bot/internal/chat/delivery/whatsapp"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/serializer"
)

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

// mockProcessor records handled messages.
type mockProcessor struct {
	mu       sync.Mutex
	messages []string
	handled  chan struct{}
}

func newMockProcessor() *mockProcessor {
	return &mockProcessor{handled: make(chan struct{}, 16)}
}

func (m *mockProcessor) HandleMessage(ctx context.Context, chatID, text string) {
	m.mu.Lock()
	m.messages = append(m.messages, chatID+": "+text)
	m.mu.Unlock()
	m.handled <- struct{}{}
}

func (m *mockProcessor) wait(t *testing.T) {
	t.Helper()
	select {
	case <-m.handled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message handling")
	}
}

const appSecret = "app-secret"

func newRouter(processor delivery.MessageProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := delivery.NewHandler(processor, delivery.SecurityConfig{
		VerifyToken:     "verify-me",
		AppSecret:       appSecret,
		RateLimitPerMin: 600,
	}, serializer.New(), &mockLogger{})

	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	return r
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func textPayload(from, body string) string {
	return fmt.Sprintf(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{"from": %q, "id": "wamid.1", "type": "text", "text": {"body": %q}}]
				}
			}]
		}]
	}`, from, body)
}

func TestVerifyHandshake(t *testing.T) {
	r := newRouter(newMockProcessor())

	t.Run("valid token echoes challenge", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.String() != "12345" {
			t.Errorf("got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}

func TestReceiveTextMessage(t *testing.T) {
	processor := newMockProcessor()
	r := newRouter(processor)

	body := textPayload("84912345678", "book dentist tomorrow")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected immediate 200, got %d", w.Code)
	}

	processor.wait(t)
	processor.mu.Lock()
	defer processor.mu.Unlock()
	if len(processor.messages) != 1 || processor.messages[0] != "84912345678: book dentist tomorrow" {
		t.Errorf("unexpected messages: %v", processor.messages)
	}
}

func TestReceiveRejectsBadSignature(t *testing.T) {
	processor := newMockProcessor()
	r := newRouter(processor)

	body := textPayload("84912345678", "hello")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	select {
	case <-processor.handled:
		t.Error("message must not be processed on signature failure")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReceiveListReply(t *testing.T) {
	processor := newMockProcessor()
	r := newRouter(processor)

	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{
						"from": "84912345678",
						"id": "wamid.2",
						"type": "interactive",
						"interactive": {"type": "list_reply", "list_reply": {"id": "row_0_1", "title": "Standup"}}
					}]
				}
			}]
		}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	processor.wait(t)
	processor.mu.Lock()
	defer processor.mu.Unlock()
	if processor.messages[0] != "84912345678: Standup" {
		t.Errorf("list replies should flatten to the row title: %v", processor.messages)
	}
}

func TestReceiveIgnoresNonMessageEvents(t *testing.T) {
	processor := newMockProcessor()
	r := newRouter(processor)

	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry1",
			"changes": [{"field": "statuses", "value": {"messaging_product": "whatsapp"}}]
		}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	select {
	case <-processor.handled:
		t.Error("status events must not reach the agent")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSameSenderHandledInOrder(t *testing.T) {
	processor := newMockProcessor()
	r := newRouter(processor)

	for i := 0; i < 3; i++ {
		body := textPayload("84912345678", fmt.Sprintf("msg %d", i))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("X-Hub-Signature-256", sign(body))
		r.ServeHTTP(w, req)
	}

	for i := 0; i < 3; i++ {
		processor.wait(t)
	}
	processor.mu.Lock()
	defer processor.mu.Unlock()
	for i, msg := range processor.messages {
		if want := fmt.Sprintf("84912345678: msg %d", i); msg != want {
			t.Fatalf("messages out of order: %v", processor.messages)
		}
	}
}

func TestSignatureValidation(t *testing.T) {
	v := delivery.NewSecurityValidator(delivery.SecurityConfig{AppSecret: appSecret})

	payload := []byte(`{"object":"whatsapp_business_account"}`)
	if err := v.ValidateSignature(payload, sign(string(payload))); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
	if err := v.ValidateSignature(payload, "sha256=00"); err == nil {
		t.Error("tampered signature accepted")
	}
	if err := v.ValidateSignature(payload, "md5=abc"); err == nil {
		t.Error("wrong format accepted")
	}

	t.Run("skipped without secret", func(t *testing.T) {
		open := delivery.NewSecurityValidator(delivery.SecurityConfig{})
		if err := open.ValidateSignature(payload, ""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestRateLimit(t *testing.T) {
	v := delivery.NewSecurityValidator(delivery.SecurityConfig{RateLimitPerMin: 10})

	// Burst is a tenth of the per-minute budget.
	if err := v.CheckRateLimit("84912345678"); err != nil {
		t.Fatalf("first message should pass: %v", err)
	}
	if err := v.CheckRateLimit("84912345678"); err == nil {
		t.Error("burst exceeded message should be dropped")
	}
	if err := v.CheckRateLimit("84999999999"); err != nil {
		t.Errorf("other senders should not be affected: %v", err)
	}
}
