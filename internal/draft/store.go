// Package draft holds at most one pending email draft per chat, used by
// the draft-then-confirm send protocol.
package draft

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is the confirmation window. Drafts are higher-stakes than
// conversation history, so they never outlive it.
const DefaultTTL = 10 * time.Minute

const maxDrafts = 4096

var (
	// ErrNoDraft means no draft exists for the chat, or it expired.
	ErrNoDraft = errors.New("draft: no pending email draft")

	// ErrSameInvocation means the confirming tool call reused the
	// drafting call's invocation ID. Sending and drafting in the same
	// model turn is rejected so the user always confirms in between.
	ErrSameInvocation = errors.New("draft: cannot send in the same turn the draft was created")
)

// Draft is a pending outbound email.
type Draft struct {
	To           string
	Subject      string
	Body         string
	ThreadID     string
	InvocationID string // tool invocation that created the draft
	CreatedAt    time.Time
}

// Store keeps one draft per chat ID with idle expiry.
type Store struct {
	drafts *expirable.LRU[string, Draft]
}

// New creates a store whose drafts expire after ttl.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{drafts: expirable.NewLRU[string, Draft](maxDrafts, nil, ttl)}
}

// Save stores a draft, overwriting any prior one for the chat.
func (s *Store) Save(chatID string, d Draft) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	s.drafts.Add(chatID, d)
}

// Get returns the chat's pending draft, if any.
func (s *Store) Get(chatID string) (Draft, bool) {
	return s.drafts.Get(chatID)
}

// Pending validates that the chat's draft may be sent by the given
// invocation. It fails with ErrNoDraft when absent or expired, and with
// ErrSameInvocation when the invocation created the draft. The draft is
// left in place; call Clear after the send succeeds.
func (s *Store) Pending(chatID, invocationID string) (Draft, error) {
	d, ok := s.drafts.Get(chatID)
	if !ok {
		return Draft{}, ErrNoDraft
	}
	if d.InvocationID == invocationID {
		return Draft{}, ErrSameInvocation
	}
	return d, nil
}

// Clear removes the chat's draft. Idempotent.
func (s *Store) Clear(chatID string) {
	s.drafts.Remove(chatID)
}
