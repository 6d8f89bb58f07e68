// Package serializer runs at most one task at a time per conversation
// key, in arrival order, while distinct keys proceed fully in parallel.
package serializer

import "sync"

type entry struct {
	tail chan struct{} // closed when the most recently enqueued task finishes
	refs int
}

// Serializer chains tasks per key. Each task waits on its predecessor's
// done channel and closes its own when finished, so release happens on
// success and failure alike and a slow or failing task can never
// deadlock the tasks queued behind it. Idle keys are removed from the
// table to bound memory.
type Serializer struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty serializer.
func New() *Serializer {
	return &Serializer{entries: make(map[string]*entry)}
}

// Enqueue registers the task at the key's queue tail and runs it
// asynchronously once its predecessors finish. The returned channel is
// closed when the task completes. Arrival order is fixed at call time.
func (s *Serializer) Enqueue(key string, task func()) <-chan struct{} {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	prev := e.tail
	done := make(chan struct{})
	e.tail = done
	e.refs++
	s.mu.Unlock()

	go func() {
		defer func() {
			close(done)
			s.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(s.entries, key)
			}
			s.mu.Unlock()
		}()

		if prev != nil {
			<-prev
		}
		// A panicking task must not take the process down or wedge the
		// tasks queued behind it.
		func() {
			defer func() { _ = recover() }()
			task()
		}()
	}()

	return done
}

// Run enqueues the task and blocks until it completes.
func (s *Serializer) Run(key string, task func()) {
	<-s.Enqueue(key, task)
}

// PendingKeys returns the number of keys with queued or running tasks.
func (s *Serializer) PendingKeys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
