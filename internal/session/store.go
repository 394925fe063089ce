package session

import (
	"context"
	"sync"
	"time"

	"archetype-quiz/internal/domain"
)

// Store keeps per-session quiz state keyed by an opaque session id. Get
// returns nil state (not an error) when the session has no state yet, so the
// orchestrator can lazily initialize a fresh vector.
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.QuizState, error)
	Save(ctx context.Context, sessionID string, state *domain.QuizState) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	state     *domain.QuizState
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
}

// NewMemoryStore returns an in-process store with lazy expiry. It is the
// fallback when Redis is not configured.
func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryStore{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
	}
}

func (s *memoryStore) Get(_ context.Context, sessionID string) (*domain.QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, sessionID)
		return nil, nil
	}
	return entry.state.Clone(), nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, state *domain.QuizState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = memoryEntry{
		state:     state.Clone(),
		expiresAt: time.Now().UTC().Add(s.ttl),
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}
