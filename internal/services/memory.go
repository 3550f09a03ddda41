package services

import (
	"slices"
	"sync"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
	"github.com/google/uuid"
)

// Greeting seeds every conversation.
const Greeting = "Hi! I'm your AI document assistant. Upload some documents using the " +
	"sidebar, and I'll help you analyze, summarize, and answer questions about them."

// MemoryStore holds the conversation log and the document registry for the lifetime of the
// process. State is deliberately not persisted; restarting the server starts over from the
// greeting with an empty registry. Reads return snapshots, so callers never observe a slice
// that a later mutation can change under them.
type MemoryStore struct {
	mu        sync.RWMutex
	messages  []models.Message
	documents []models.Document
}

// NewMemoryStore creates a store whose conversation already contains the greeting message.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: []models.Message{
			{
				ID:        uuid.New().String(),
				Role:      models.RoleAssistant,
				Content:   Greeting,
				Timestamp: time.Now(),
			},
		},
	}
}

// Messages returns a snapshot of the conversation in append order.
func (s *MemoryStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

// AppendMessage adds a message to the end of the conversation log.
func (s *MemoryStore) AppendMessage(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Documents returns a snapshot of the document registry in upload order.
func (s *MemoryStore) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.documents)
}

// AddDocument appends a record to the document registry.
func (s *MemoryStore) AddDocument(doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
}

// RemoveDocument deletes the record with the given id, reporting whether it existed. The
// removal is local only; the backend contract has no delete endpoint, so the backend keeps
// its copy of the document after a delete.
func (s *MemoryStore) RemoveDocument(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.documents, func(d models.Document) bool { return d.ID == id })
	if idx == -1 {
		return false
	}
	s.documents = slices.Delete(s.documents, idx, idx+1)
	return true
}
