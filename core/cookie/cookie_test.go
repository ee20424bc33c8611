package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/cookie"
)

const (
	secretA = "0123456789abcdef0123456789abcdef"
	secretB = "fedcba9876543210fedcba9876543210"
)

func requestWith(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA}, cookie.WithSecure(true))
	require.NoError(t, err)

	c, err := m.Signed("sid", "token-value", cookie.WithMaxAge(60))
	require.NoError(t, err)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 60, c.MaxAge)
	assert.NotContains(t, c.Value, "token-value")

	got, err := m.Verify(requestWith(c), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-value", got)
}

func TestVerifyFailures(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)
	c, err := m.Signed("sid", "v")
	require.NoError(t, err)

	_, err = m.Verify(requestWith(nil), "sid")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	_, err = m.Verify(requestWith(&http.Cookie{Name: "sid", Value: "plain"}), "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidFormat)

	tampered := *c
	tampered.Value = strings.Replace(c.Value, ".", "x.", 1)
	_, err = m.Verify(requestWith(&tampered), "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)

	renamed := *c
	renamed.Name = "other"
	_, err = m.Verify(requestWith(&renamed), "other")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature, "signature is bound to the name")
}

func TestSecretRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{secretA})
	require.NoError(t, err)
	c, err := old.Signed("sid", "v")
	require.NoError(t, err)

	rotated, err := cookie.New([]string{secretB, secretA})
	require.NoError(t, err)
	got, err := rotated.Verify(requestWith(c), "sid")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestSizeLimit(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{Secrets: secretA, MaxSize: 100})
	require.NoError(t, err)

	_, err = m.Signed("sid", strings.Repeat("x", 200))
	var tooLarge cookie.ErrCookieTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}

func TestExpired(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{Secrets: " , " + secretA, Path: "/app"})
	require.NoError(t, err)

	c := m.Expired("sid")
	assert.Equal(t, -1, c.MaxAge)
	assert.Equal(t, "/app", c.Path)
	assert.Empty(t, c.Value)
}
