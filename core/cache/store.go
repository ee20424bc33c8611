package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/psfs/core/logger"
)

// Format selects how StoreData serializes a value.
type Format int

const (
	// FormatText stores []byte or string values as-is.
	FormatText Format = iota
	// FormatJSON stores the JSON encoding of the value.
	FormatJSON
)

// Entry is a cached response ready for replay.
type Entry struct {
	Path    string
	Body    []byte
	Headers []string
}

// Store is the response cache facade over a Backend.
type Store struct {
	backend     Backend
	enabled     bool
	defaultTTL  time.Duration
	adminPrefix string
	varyHeaders []string
	dimensions  []Dimension
	logger      *slog.Logger
}

// Option configures Store.
type Option func(*Store)

// WithEnabled turns the cache on or off.
func WithEnabled(enabled bool) Option {
	return func(s *Store) {
		s.enabled = enabled
	}
}

// WithDefaultTTL sets the lifetime used when the request carries no override.
// Zero means only requests with an explicit TTL are cached.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.defaultTTL = ttl
	}
}

// WithAdminPrefix excludes paths under prefix from caching.
func WithAdminPrefix(prefix string) Option {
	return func(s *Store) {
		s.adminPrefix = strings.TrimRight(prefix, "/")
	}
}

// WithVaryHeaders adds request headers to the fingerprint.
func WithVaryHeaders(names ...string) Option {
	return func(s *Store) {
		s.varyHeaders = append(s.varyHeaders, names...)
	}
}

// WithDimension adds a computed component to the fingerprint.
func WithDimension(dim Dimension) Option {
	return func(s *Store) {
		if dim != nil {
			s.dimensions = append(s.dimensions, dim)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store. The cache is disabled unless WithEnabled(true) is given.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NeedCache reports whether the response to r may be written to the cache,
// and for how long.
func (s *Store) NeedCache(r *http.Request) (time.Duration, bool) {
	if !s.eligible(r) {
		return 0, false
	}
	ttl := s.defaultTTL
	if override, ok := TTLFromContext(r.Context()); ok {
		ttl = override
	}
	return ttl, ttl > 0
}

func (s *Store) eligible(r *http.Request) bool {
	if !s.enabled || s.backend == nil {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if s.adminPrefix != "" {
		p := r.URL.Path
		if p == s.adminPrefix || strings.HasPrefix(p, s.adminPrefix+"/") {
			return false
		}
	}
	return true
}

// StoreData serializes value according to format and writes it under key.
func (s *Store) StoreData(ctx context.Context, key string, value any, format Format, ttl time.Duration) error {
	var data []byte
	switch format {
	case FormatText:
		switch v := value.(type) {
		case []byte:
			data = v
		case string:
			data = []byte(v)
		default:
			return fmt.Errorf("%w: %T as text", ErrUnsupportedValue, value)
		}
	case FormatJSON:
		var err error
		if data, err = json.Marshal(value); err != nil {
			return errors.Join(ErrUnsupportedValue, err)
		}
	default:
		return fmt.Errorf("%w: format %d", ErrUnsupportedValue, format)
	}

	if err := s.backend.Set(ctx, key, data, ttl); err != nil {
		s.logger.ErrorContext(ctx, "cache write failed", logger.CacheKey(key), logger.Error(err))
		return err
	}
	s.logger.DebugContext(ctx, "cache write", logger.CacheKey(key), logger.Duration(ttl))
	return nil
}

// GetData returns the raw value stored under key.
func (s *Store) GetData(ctx context.Context, key string) ([]byte, error) {
	return s.backend.Get(ctx, key)
}

// Lookup returns the cached response for r. Entries missing either the body
// or the header sidecar are treated as absent.
func (s *Store) Lookup(ctx context.Context, r *http.Request) (Entry, bool, error) {
	if !s.eligible(r) {
		return Entry{}, false, nil
	}
	path, name := s.RequestHash(r)

	body, err := s.backend.Get(ctx, DataKey(path, name))
	if errors.Is(err, ErrNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	raw, err := s.backend.Get(ctx, HeadersKey(path, name))
	if errors.Is(err, ErrNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var headers []string
	if err := json.Unmarshal(raw, &headers); err != nil {
		return Entry{}, false, errors.Join(ErrCorruptEntry, err)
	}

	return Entry{Path: path + name, Body: body, Headers: headers}, true, nil
}

// Purge removes the body and sidecar stored for the hashed location.
func (s *Store) Purge(ctx context.Context, path, name string) error {
	return errors.Join(
		s.backend.Delete(ctx, DataKey(path, name)),
		s.backend.Delete(ctx, HeadersKey(path, name)),
	)
}

// PurgeRequest removes the entry r would hit.
func (s *Store) PurgeRequest(ctx context.Context, r *http.Request) error {
	path, name := s.RequestHash(r)
	return s.Purge(ctx, path, name)
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
