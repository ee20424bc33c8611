package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side key/value bag bound to a client token.
type Session struct {
	// ID never changes during the session lifecycle.
	ID uuid.UUID `json:"id"`
	// Token is 32 random bytes, base64url. Sent to the client as the cookie value.
	Token     string         `json:"token"`
	IP        string         `json:"ip"`
	UserAgent string         `json:"user_agent"`
	Values    map[string]any `json:"values"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt time.Time      `json:"deleted_at,omitzero"`

	isModified bool
}

// NewSessionParams contains parameters for creating a new session.
type NewSessionParams struct {
	IP        string
	UserAgent string
}

// New creates a session with a fresh ID and token. It is marked modified.
func New(params NewSessionParams, ttl time.Duration) (Session, error) {
	if params.IP == "" {
		return Session{}, ErrMissingIP
	}

	token, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:         uuid.New(),
		Token:      token,
		IP:         params.IP,
		UserAgent:  params.UserAgent,
		Values:     map[string]any{},
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		isModified: true,
	}, nil
}

// Get returns the value stored under key.
func (s Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	if s.Values == nil {
		s.Values = map[string]any{}
	}
	s.Values[key] = value
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; !ok {
		return
	}
	delete(s.Values, key)
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Clone returns a copy with its own Values map.
func (s Session) Clone() Session {
	s.Values = maps.Clone(s.Values)
	return s
}

// Refresh rotates the token, keeping the ID and values.
func (s *Session) Refresh() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Logout marks the session for deletion.
func (s *Session) Logout() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

// Touch extends the expiration if the touch interval has elapsed.
func (s *Session) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		s.ExpiresAt = time.Now().Add(ttl)
		s.UpdatedAt = time.Now()
		s.isModified = true
	}
}

// IsDeleted reports whether Logout was called.
func (s Session) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified reports whether the session needs saving.
func (s Session) IsModified() bool {
	return s.isModified
}

// IsExpired reports whether the session has expired.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
