package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS cache (
	key     TEXT PRIMARY KEY,
	expires INTEGER NOT NULL DEFAULT 0,
	data    BLOB NOT NULL
)`

// SQLiteBackend keeps entries in a single SQLite table.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite cache path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &SQLiteBackend{db: db, now: time.Now}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		expires int64
		data    []byte
	)
	err := b.db.QueryRowContext(ctx, `SELECT expires, data FROM cache WHERE key = ?`, key).Scan(&expires, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get: %w", err)
	}
	if expires != 0 && expired(b.now(), time.Unix(0, expires)) {
		_, _ = b.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
		return nil, ErrNotFound
	}
	return data, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires int64
	if at := expiresAt(b.now(), ttl); !at.IsZero() {
		expires = at.UnixNano()
	}
	if value == nil {
		value = []byte{}
	}
	_, err := b.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache (key, expires, data) VALUES (?, ?, ?)`,
		key, expires, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// DeleteExpired drops every expired row and returns the count.
func (b *SQLiteBackend) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM cache WHERE expires != 0 AND expires <= ?`, b.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sqlite delete expired: %w", err)
	}
	return res.RowsAffected()
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
