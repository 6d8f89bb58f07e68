package conversation

import (
	"testing"
	"time"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
)

func TestGetEmpty(t *testing.T) {
	s := New(nil, DefaultTTL)
	if got := s.Get("15551234567"); len(got) != 0 {
		t.Errorf("expected empty history, got %d turns", len(got))
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := New(nil, DefaultTTL)

	s.Append("a", claude.NewTextMessage(claude.RoleUser, "first"))
	s.Append("a", claude.NewTextMessage(claude.RoleAssistant, "second"))
	s.Append("b", claude.NewTextMessage(claude.RoleUser, "other chat"))

	history := s.Get("a")
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Content[0].Text != "first" || history[1].Content[0].Text != "second" {
		t.Errorf("turn order not preserved: %+v", history)
	}
	if len(s.Get("b")) != 1 {
		t.Errorf("chats should be independent")
	}
}

func TestClear(t *testing.T) {
	s := New(nil, DefaultTTL)
	s.Append("a", claude.NewTextMessage(claude.RoleUser, "hi"))
	s.Clear("a")
	if len(s.Get("a")) != 0 {
		t.Error("expected history discarded after clear")
	}
	// Clearing an absent chat is a no-op
	s.Clear("missing")
}

func TestIdleEviction(t *testing.T) {
	s := New(nil, 50*time.Millisecond)
	s.Append("a", claude.NewTextMessage(claude.RoleUser, "hi"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Get("a")) == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("conversation should be evicted after idle timeout")
}

func TestAppendResetsIdleTimer(t *testing.T) {
	s := New(nil, 150*time.Millisecond)
	s.Append("a", claude.NewTextMessage(claude.RoleUser, "one"))

	// Keep appending within the TTL window; the entry must survive well
	// past the original deadline.
	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		s.Append("a", claude.NewTextMessage(claude.RoleUser, "more"))
	}

	if len(s.Get("a")) != 6 {
		t.Errorf("conversation should survive while active, got %d turns", len(s.Get("a")))
	}
}
