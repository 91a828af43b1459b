// Package conversation owns the ordered message list of one chat view.
package conversation

import (
	"sync"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// Observer receives every snapshot published by the store
type Observer func(models.Conversation)

// Store holds the current conversation snapshot and publishes a new one on
// every mutation. Published snapshots are never modified afterwards.
type Store struct {
	mu        sync.Mutex // Protects current and observers; held while publishing
	current   models.Conversation
	observers []subscription
	nextID    int
}

// subscription keeps registration order so observers are notified in a stable order
type subscription struct {
	id int
	fn Observer
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current conversation
func (s *Store) Snapshot() models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers an observer and returns a function that removes it.
// Observers run synchronously, in mutation order and then in registration
// order, and must not call back into the store.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Append adds one entry at the tail
func (s *Store) Append(entry models.MessageEntry) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishLocked(s.current.With(entry))
}

// AppendPair adds the user entry and its placeholder in a single publication
func (s *Store) AppendPair(user, placeholder models.MessageEntry) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishLocked(s.current.With(user, placeholder))
}

// ResolvePending replaces the pending placeholder with a terminal entry built from result
func (s *Store) ResolvePending(result models.Result) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.current.Pending(); !ok {
		return s.current, apierrors.NewInvariantViolation("ResolvePending", "no pending entry to resolve")
	}

	next := s.current.WithoutPending().With(models.NewAssistantEntry(result))
	return s.publishLocked(next), nil
}

// Reset discards every entry
func (s *Store) Reset() models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishLocked(models.Conversation{})
}

// publishLocked installs next and notifies observers.
// MUST be called with s.mu held
func (s *Store) publishLocked(next models.Conversation) models.Conversation {
	s.current = next
	for _, sub := range s.observers {
		sub.fn(next)
	}
	return next
}
