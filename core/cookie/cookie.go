package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

const (
	// MaxCookieSize is the maximum serialized cookie size (4KB).
	MaxCookieSize = 4096
	minSecretLength = 32
)

// Manager signs and verifies cookie values.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
}

// New creates a manager. The first secret signs; every secret verifies.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	return &Manager{
		secrets: secrets,
		defaults: applyOptions(Options{
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}, opts),
		maxSize: MaxCookieSize,
	}, nil
}

// Signed returns a cookie carrying value with an HMAC signature.
func (m *Manager) Signed(name, value string, opts ...Option) (*http.Cookie, error) {
	c := m.build(name, m.sign(name, value), opts)
	if size := len(c.String()); size > m.maxSize {
		return nil, ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}
	return c, nil
}

// Verify reads cookie name from r and returns its value if the signature holds.
func (m *Manager) Verify(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return m.verify(name, c.Value)
}

// Expired returns a cookie that deletes name on the client.
func (m *Manager) Expired(name string) *http.Cookie {
	return m.build(name, "", []Option{WithMaxAge(-1)})
}

func (m *Manager) build(name, value string, opts []Option) *http.Cookie {
	o := applyOptions(m.defaults, opts)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}

func (m *Manager) sign(name, value string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(value))
	return payload + "." + mac(m.secrets[0], name, payload)
}

func (m *Manager) verify(name, signed string) (string, error) {
	payload, sig, ok := strings.Cut(signed, ".")
	if !ok || payload == "" || sig == "" {
		return "", ErrInvalidFormat
	}
	for _, secret := range m.secrets {
		if hmac.Equal([]byte(sig), []byte(mac(secret, name, payload))) {
			value, err := base64.RawURLEncoding.DecodeString(payload)
			if err != nil {
				return "", ErrInvalidFormat
			}
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(secret, name, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	h.Write([]byte{'|'})
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
