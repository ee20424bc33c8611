package session

import (
	"context"
	"errors"
	"time"
)

// Manager handles session retrieval, expiry and persistence.
type Manager struct {
	store Store
	cfg   Config
}

// NewManager creates a manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{store: store, cfg: cfg}
}

// GetByToken loads a session and rejects expired ones.
func (m *Manager) GetByToken(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNotFound
	}
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if sess.IsExpired() {
		return Session{}, ErrExpired
	}
	return *sess, nil
}

// Create starts a new session for the client.
func (m *Manager) Create(params NewSessionParams) (Session, error) {
	return New(params, m.cfg.TTL)
}

// Store persists sess according to its state. Deleted sessions are removed
// and reported with ErrDeleted so the caller can clear the client token.
func (m *Manager) Store(ctx context.Context, sess Session) error {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return ErrDeleted
	}

	sess.Touch(m.cfg.TTL, m.cfg.TouchInterval)
	if !sess.IsModified() {
		return nil
	}
	if err := m.store.Save(ctx, &sess); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	return nil
}

// CleanupExpired removes all expired sessions from the store.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}
