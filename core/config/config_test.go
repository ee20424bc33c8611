package config_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/config"
	"github.com/dmitrymomot/psfs/core/response"
)

type loadTestConfig struct {
	Name    string        `env:"PSFS_TEST_NAME" envDefault:"psfs"`
	Timeout time.Duration `env:"PSFS_TEST_TIMEOUT" envDefault:"3s"`
}

func TestLoad(t *testing.T) {
	t.Setenv("PSFS_TEST_NAME", "first")

	var a loadTestConfig
	require.NoError(t, config.Load(&a))
	assert.Equal(t, "first", a.Name)
	assert.Equal(t, 3*time.Second, a.Timeout)

	t.Setenv("PSFS_TEST_NAME", "second")
	var b loadTestConfig
	config.MustLoad(&b)
	assert.Equal(t, "first", b.Name, "a type is loaded once")
}

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()

	s := config.Settings{BaseDir: "/srv/app"}
	assert.Equal(t, "/srv/app/config", s.ConfigDir())
	assert.Equal(t, "/srv/app/locale", s.LocaleDir())
	assert.Equal(t, "/srv/app/config/config.yml", s.ParamsFile())
}

func TestService(t *testing.T) {
	t.Parallel()

	settings := config.Settings{BaseDir: t.TempDir()}
	svc, err := config.New(settings)
	require.NoError(t, err)

	assert.False(t, svc.IsConfigured())
	assert.Equal(t, []string{"default_language", "home_action"}, svc.Missing())
	assert.False(t, svc.DebugMode())
	assert.Equal(t, "fallback", svc.Param("home_action", "fallback"))

	svc.Set("default_language", "es_ES")
	svc.Set("home_action", "/")
	svc.Set("debug", "true")
	require.NoError(t, svc.Save())
	assert.True(t, svc.IsConfigured())
	assert.True(t, svc.DebugMode())

	reloaded, err := config.New(settings)
	require.NoError(t, err)
	assert.True(t, reloaded.IsConfigured())
	assert.Equal(t, "es_ES", reloaded.Get("default_language"))
	assert.Equal(t, "/", reloaded.Param("home_action", "fallback"))
	assert.Len(t, reloaded.All(), 3)
}

func TestServiceBrokenFile(t *testing.T) {
	t.Parallel()

	settings := config.Settings{BaseDir: t.TempDir()}
	require.NoError(t, os.MkdirAll(settings.ConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(settings.ParamsFile(), []byte("a: [b"), 0o644))

	_, err := config.New(settings)
	assert.ErrorIs(t, err, config.ErrReadParams)
}

func TestWizard(t *testing.T) {
	t.Parallel()

	newExchange := func(r *http.Request) (*response.Exchange, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		return response.NewEmitter().Exchange(w, r), w
	}

	t.Run("renders missing keys", func(t *testing.T) {
		t.Parallel()
		svc, err := config.New(config.Settings{BaseDir: t.TempDir()})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/anything", nil)
		r.Header.Set("Accept-Language", "en-US")
		x, w := newExchange(r)
		require.NoError(t, svc.Config(x))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="home_action"`)
		assert.Contains(t, w.Body.String(), "Initial setup")
		assert.Contains(t, w.Header().Values("Cache-Control"), "private, no-cache, no-store, must-revalidate")
		assert.True(t, x.Terminated())
	})

	t.Run("saves complete form", func(t *testing.T) {
		t.Parallel()
		settings := config.Settings{BaseDir: t.TempDir()}
		svc, err := config.New(settings)
		require.NoError(t, err)

		form := url.Values{"default_language": {"en_US"}, "home_action": {"/home"}}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("Accept-Language", "en-US")
		x, w := newExchange(r)
		require.NoError(t, svc.Config(x))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Configuration saved.")
		assert.True(t, svc.IsConfigured())
		_, err = os.Stat(filepath.Join(settings.ConfigDir(), "config.yml"))
		assert.NoError(t, err)
	})

	t.Run("rejects incomplete form", func(t *testing.T) {
		t.Parallel()
		svc, err := config.New(config.Settings{BaseDir: t.TempDir()})
		require.NoError(t, err)

		form := url.Values{"default_language": {"es_ES"}}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		x, w := newExchange(r)
		require.NoError(t, svc.Config(x))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "home_action")
		assert.False(t, svc.IsConfigured())
	})
}
