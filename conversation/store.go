// Package conversation holds per-session message history. A Store is
// created by the surface that owns the session and handed to the agent;
// nothing here is global.
package conversation

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mbeutel/llamachat/types"
)

// Store is an append-only message history, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	id       string
	messages []types.Message
}

// NewStore creates an empty store with a fresh session ID.
func NewStore() *Store {
	return &Store{id: uuid.New().String()}
}

// ID returns the session identifier.
func (s *Store) ID() string {
	return s.id
}

// Append adds a message built from role and content.
func (s *Store) Append(role, content string) {
	s.AppendMessage(types.Message{Role: role, Content: content})
}

// AppendMessage adds a complete message, including tool-call metadata.
func (s *Store) AppendMessage(msg types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the history; callers can hold it across
// further appends.
func (s *Store) Messages() []types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of stored messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear drops the history but keeps the session ID.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
