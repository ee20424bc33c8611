package security_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/cookie"
	"github.com/dmitrymomot/psfs/core/response"
	"github.com/dmitrymomot/psfs/core/security"
	"github.com/dmitrymomot/psfs/core/session"
)

const secret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store    *session.MemoryStore
	security *security.Service
	emitter  *response.Emitter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cookies, err := cookie.New([]string{secret})
	require.NoError(t, err)

	store := session.NewMemoryStore()
	svc := security.New(session.NewManager(store, session.WithTTL(time.Hour)), cookies)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return fixture{
		store:    store,
		security: svc,
		emitter: response.NewEmitter(
			response.WithSessionRecorder(svc),
			response.WithClock(func() time.Time { return now }),
		),
	}
}

func (f fixture) serve(t *testing.T, r *http.Request, handle func(x *response.Exchange) error) (*response.Exchange, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	x := f.emitter.Exchange(w, r)
	require.NoError(t, f.security.Start(x))
	require.NoError(t, handle(x))
	return x, w
}

func TestStartCreatesAndResumesSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "http://example.com/first?a=1", nil)
	x1, w1 := f.serve(t, r, func(x *response.Exchange) error {
		return x.Response([]byte("ok"), "text/plain")
	})

	setCookie := w1.Header().Get("Set-Cookie")
	require.True(t, strings.HasPrefix(setCookie, security.DefaultCookieName+"="), setCookie)
	assert.Equal(t, 1, f.store.Len())
	first, ok := f.security.Session(x1)
	require.True(t, ok)

	r2 := httptest.NewRequest(http.MethodGet, "http://example.com/second", nil)
	for _, c := range w1.Result().Cookies() {
		r2.AddCookie(c)
	}
	x2, w2 := f.serve(t, r2, func(x *response.Exchange) error {
		tail, ok := f.security.SessionKey(x, response.LastRequestKey)
		require.True(t, ok)
		assert.Equal(t, "http://example.com/first?a=1", tail.(security.SessionTail).URL)
		return x.Response([]byte("ok"), "text/plain")
	})

	assert.Empty(t, w2.Header().Get("Set-Cookie"), "an existing session sends no new cookie")
	second, ok := f.security.Session(x2)
	require.True(t, ok)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.store.Len())
}

func TestStartRejectsForgedCookie(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: security.DefaultCookieName, Value: "forged.value"})
	_, w := f.serve(t, r, func(x *response.Exchange) error {
		return x.Response(nil, "")
	})

	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
	assert.Equal(t, 1, f.store.Len())
}

func TestSessionKeyWithoutStart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	x := f.emitter.Exchange(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, f.security.SetSessionKey(x, "k", "v"), security.ErrNoSession)
	assert.ErrorIs(t, f.security.UpdateSession(x), security.ErrNoSession)
	_, ok := f.security.SessionKey(x, "k")
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, w1 := f.serve(t, httptest.NewRequest(http.MethodGet, "/", nil), func(x *response.Exchange) error {
		return x.Response(nil, "")
	})
	require.Equal(t, 1, f.store.Len())

	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}
	_, w := f.serve(t, r, func(x *response.Exchange) error {
		require.NoError(t, f.security.Logout(x))
		return x.Response(nil, "")
	})

	assert.Equal(t, 0, f.store.Len())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestNotAuthorized(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/admin/secret", nil)
	r.Header.Set("Accept-Language", "en-US")
	x, w := f.serve(t, r, func(x *response.Exchange) error {
		return f.security.NotAuthorized(x, "/admin/secret")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to access /admin/secret.")
	assert.Contains(t, w.Header().Values("Cache-Control"), "private, no-cache, no-store, must-revalidate")
	assert.True(t, x.Terminated())
}

func TestCacheUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	assert.Empty(t, security.CacheUser(httptest.NewRequest(http.MethodGet, "/", nil)), "no session")

	x, _ := f.serve(t, httptest.NewRequest(http.MethodGet, "/account", nil), func(x *response.Exchange) error {
		assert.Empty(t, security.CacheUser(x.Request()), "anonymous session")
		require.NoError(t, f.security.SetSessionKey(x, security.UserKey, 42))
		return nil
	})
	assert.Equal(t, "42", security.CacheUser(x.Request()))
}
