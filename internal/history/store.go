package history

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Message roles as sent to the completion backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system" // reserved, not produced by the client yet
)

type Message struct {
	Role    string
	Content string
}

// Conversation is a persisted chat thread. It is created only after the first
// successful user/assistant exchange; ID, Model, Title and Timestamp are fixed
// at creation.
type Conversation struct {
	ID        string
	Model     string
	Title     string
	Messages  []Message
	Timestamp time.Time
}

var (
	ErrNotFound    = errors.New("conversation not found")
	ErrDuplicateID = errors.New("conversation id already exists")
)

// Store holds all conversations for the lifetime of the client session.
// The session controller is the only writer; presentation code reads through
// the query methods and never receives a mutable handle.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	order         []string // insertion order of conversation ids
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
		order:         make([]string, 0),
	}
}

// AddHistory inserts a new conversation. The id must not be present yet.
func (s *Store) AddHistory(conv Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conv.ID]; exists {
		return fmt.Errorf("add history %q: %w", conv.ID, ErrDuplicateID)
	}

	stored := conv
	stored.Messages = copyMessages(conv.Messages)
	s.conversations[conv.ID] = &stored
	s.order = append(s.order, conv.ID)
	return nil
}

// UpdateHistoryMessages replaces the whole message sequence of an existing
// conversation. An unknown id fails with ErrNotFound rather than silently
// creating an entry; a miss here means the caller holds a stale id.
func (s *Store) UpdateHistoryMessages(id string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, exists := s.conversations[id]
	if !exists {
		return fmt.Errorf("update history %q: %w", id, ErrNotFound)
	}

	conv.Messages = copyMessages(messages)
	return nil
}

// GetMessages returns the message sequence of a conversation. An empty or
// unknown id yields an empty slice, which is the "new, empty conversation"
// view.
func (s *Store) GetMessages(id string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, exists := s.conversations[id]
	if !exists {
		return []Message{}
	}
	return copyMessages(conv.Messages)
}

// Get returns a snapshot of a single conversation.
func (s *Store) Get(id string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, exists := s.conversations[id]
	if !exists {
		return Conversation{}, false
	}

	snapshot := *conv
	snapshot.Messages = copyMessages(conv.Messages)
	return snapshot, true
}

// List returns snapshots of all conversations, newest first.
func (s *Store) List() []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Conversation, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		conv := s.conversations[s.order[i]]
		snapshot := *conv
		snapshot.Messages = copyMessages(conv.Messages)
		result = append(result, snapshot)
	}
	return result
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func copyMessages(messages []Message) []Message {
	result := make([]Message, len(messages))
	copy(result, messages)
	return result
}
