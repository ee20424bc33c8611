package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/psfs/integration/database/pg"
)

// DB is the pgx surface used by PostgresStore. *pgxpool.Pool and pgx.Tx satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const postgresSchema = `CREATE TABLE IF NOT EXISTS psfs_sessions (
	id         UUID PRIMARY KEY,
	token      TEXT NOT NULL UNIQUE,
	ip         TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	data       JSONB NOT NULL DEFAULT '{}',
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps sessions in the psfs_sessions table.
// A transaction stored with pg.WithTx takes precedence over the pool.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates the store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the sessions table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.conn(ctx).Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *PostgresStore) conn(ctx context.Context) DB {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	var (
		sess Session
		data []byte
	)
	err := s.conn(ctx).QueryRow(ctx, `
		SELECT id, token, ip, user_agent, data, expires_at, created_at, updated_at
		FROM psfs_sessions WHERE token = $1`, token,
	).Scan(&sess.ID, &sess.Token, &sess.IP, &sess.UserAgent, &data, &sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	if err := json.Unmarshal(data, &sess.Values); err != nil {
		return nil, fmt.Errorf("decode session values: %w", err)
	}
	return &sess, nil
}

func (s *PostgresStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess.Values)
	if err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	_, err = s.conn(ctx).Exec(ctx, `
		INSERT INTO psfs_sessions (id, token, ip, user_agent, data, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		sess.ID, sess.Token, sess.IP, sess.UserAgent, data, sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.conn(ctx).Exec(ctx, `DELETE FROM psfs_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.conn(ctx).Exec(ctx, `DELETE FROM psfs_sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
