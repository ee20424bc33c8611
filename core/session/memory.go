package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]Session
	byToken map[string]uuid.UUID
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]Session),
		byToken: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) GetByToken(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	sess := s.byID[id].Clone()
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[sess.ID]; ok && prev.Token != sess.Token {
		delete(s.byToken, prev.Token)
	}
	stored := sess.Clone()
	stored.isModified = false
	s.byID[sess.ID] = stored
	s.byToken[sess.Token] = sess.ID
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byToken, sess.Token)
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var n int64
	for id, sess := range s.byID {
		if now.After(sess.ExpiresAt) {
			delete(s.byToken, sess.Token)
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
