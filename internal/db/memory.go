package db

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/skill-finder/internal/types"
)

// MemoryStore keeps conversation turns in process memory. Used when no
// database URL is configured, and by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]types.ConversationTurn
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]types.ConversationTurn)}
}

// AppendTurn stores a turn, assigning the next sequence number within the
// session, and returns the stored record.
func (m *MemoryStore) AppendTurn(_ context.Context, turn types.ConversationTurn) (types.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	turn.Seq = len(m.sessions[turn.SessionID]) + 1
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	m.sessions[turn.SessionID] = append(m.sessions[turn.SessionID], turn)
	return turn, nil
}

// ListTurns retrieves all turns for a session in sequence order.
func (m *MemoryStore) ListTurns(_ context.Context, sessionID string) ([]types.ConversationTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.sessions[sessionID]
	turns := make([]types.ConversationTurn, len(stored))
	copy(turns, stored)
	return turns, nil
}

// DeleteSession removes all turns for a session.
func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
