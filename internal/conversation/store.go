// Package conversation holds per-chat dialogue history with idle eviction.
package conversation

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

// DefaultTTL is how long an idle conversation survives. Every append
// resets the clock.
const DefaultTTL = 10 * time.Minute

// maxConversations bounds memory if eviction never fires.
const maxConversations = 4096

// Store keeps per-chat message history in memory; it does not survive
// restarts. Ordering within a chat comes from the serializer's
// single-writer discipline, not from the store.
type Store struct {
	conversations *expirable.LRU[string, []claude.MessageParam]
	l             pkgLog.Logger
}

// New creates a store whose conversations expire after ttl of inactivity.
func New(l pkgLog.Logger, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{l: l}
	s.conversations = expirable.NewLRU(maxConversations, s.onEvict, ttl)
	return s
}

func (s *Store) onEvict(chatID string, history []claude.MessageParam) {
	if s.l != nil {
		s.l.Debugf(context.Background(), "conversation store: evicted %s (%d turns)", chatID, len(history))
	}
}

// Get returns the chat's history, empty if none.
func (s *Store) Get(chatID string) []claude.MessageParam {
	history, ok := s.conversations.Get(chatID)
	if !ok {
		return nil
	}
	return history
}

// Append adds a turn to the chat's history and resets its idle timer.
func (s *Store) Append(chatID string, msg claude.MessageParam) {
	history := s.Get(chatID)
	history = append(history, msg)
	// Add re-inserts the entry, which restarts its TTL.
	s.conversations.Add(chatID, history)
}

// Clear discards the chat's history.
func (s *Store) Clear(chatID string) {
	s.conversations.Remove(chatID)
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	return s.conversations.Len()
}
