package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/config"
	"github.com/dmitrymomot/psfs/core/cookie"
	"github.com/dmitrymomot/psfs/core/session"
)

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	return config.Settings{
		AppName:         "psfs-test",
		DefaultLanguage: "es_ES",
		PoweredBy:       "PSFS",
		BaseDir:         t.TempDir(),
		AdminPrefix:     "/admin",
		LogLevel:        "error",
		Cache: cache.Config{
			Enabled:  true,
			Backend:  cache.BackendMemory,
			TTL:      time.Minute,
			Capacity: 16,
		},
		Session: session.Config{
			TTL:           time.Hour,
			TouchInterval: time.Minute,
			CookieName:    "psfs_session",
			Store:         "memory",
		},
		Cookie: cookie.Config{
			Secrets: strings.Repeat("s", 32),
			Path:    "/",
		},
	}
}

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNewApp(t *testing.T) {
	t.Parallel()

	a, err := newApp(context.Background(), testSettings(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	t.Run("liveness", func(t *testing.T) {
		resp := get(t, a.handler, "/health/live")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ALIVE", readBody(t, resp))
	})

	t.Run("readiness without external clients", func(t *testing.T) {
		resp := get(t, a.handler, "/health/ready")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "READY", readBody(t, resp))
	})

	t.Run("unconfigured app renders setup", func(t *testing.T) {
		resp := get(t, a.handler, "/")
		body := readBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "PSFS", resp.Header.Get("X-Powered-By"))
		assert.Contains(t, body, `name="default_language"`)
		assert.Contains(t, body, `name="home_action"`)
		assert.NotEmpty(t, resp.Header.Values("Set-Cookie"), "a session cookie is issued")
	})

	t.Run("metrics", func(t *testing.T) {
		_ = get(t, a.handler, "/anything")
		body := readBody(t, get(t, a.handler, "/metrics"))
		assert.Contains(t, body, `psfs_requests_total{outcome="setup"}`)
		assert.Contains(t, body, "go_goroutines")
	})
}

func TestNewApp_CacheSplitsByLanguage(t *testing.T) {
	t.Parallel()

	a, err := newApp(context.Background(), testSettings(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	es := httptest.NewRequest(http.MethodGet, "/home", nil)
	en := httptest.NewRequest(http.MethodGet, "/home", nil)
	en.Header.Set("Accept-Language", "en-US")

	_, esName := a.store.RequestHash(es)
	_, enName := a.store.RequestHash(en)
	assert.NotEqual(t, esName, enName)
}

func TestNewApp_InvalidCookieSecret(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.Cookie.Secrets = "short"
	_, err := newApp(context.Background(), s)
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}

func TestNewApp_UnknownCacheBackend(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.Cache.Backend = "tape"
	_, err := newApp(context.Background(), s)
	assert.ErrorIs(t, err, cache.ErrUnknownBackend)
}

type countingExpirer struct {
	calls chan struct{}
}

func (c countingExpirer) DeleteExpired(context.Context) (int64, error) {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return 1, nil
}

func TestSweep(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	e := countingExpirer{calls: make(chan struct{}, 1)}
	a := &app{settings: s, log: newLogger(s), sweepers: map[string]expirer{"test": e}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.sweep(ctx, 5*time.Millisecond) }()

	select {
	case <-e.calls:
	case <-time.After(time.Second):
		t.Fatal("sweeper was not called")
	}
	cancel()
	assert.NoError(t, <-done)
}

func TestSweep_Disabled(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	a := &app{settings: s, log: newLogger(s)}
	assert.NoError(t, a.sweep(context.Background(), 0))
}
