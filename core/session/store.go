package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	GetByToken(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
