package i18n_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/i18n"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "es_ES", want: "es_ES"},
		{in: "es-es", want: "es_ES"},
		{in: "EN_us", want: "en_US"},
		{in: "fr", want: "fr"},
		{in: " de ", want: "de"},
		{in: "", wantErr: true},
		{in: "not a locale", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := i18n.Normalize(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, i18n.ErrInvalidLocale)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestT(t *testing.T) {
	t.Parallel()

	var missing []string
	tr, err := i18n.New(
		i18n.WithDefaultLanguage("es-ES"),
		i18n.WithTranslations("es_ES", "psfs", map[string]any{
			"errors": map[string]any{
				"not_found":      "Página no encontrada",
				"not_authorized": "No autorizado para %{uri}",
			},
			"only_es": "solo español",
		}),
		i18n.WithTranslations("en_US", "psfs", map[string]any{
			"errors": map[string]any{"not_found": "Page not found"},
		}),
		i18n.WithMissingKeyHandler(func(lang, namespace, key string) {
			missing = append(missing, key)
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "Page not found", tr.T("en_US", "psfs", "errors.not_found"))
	assert.Equal(t, "Page not found", tr.T("en-us", "psfs", "errors.not_found"))
	assert.Equal(t, "solo español", tr.T("en_US", "psfs", "only_es"), "falls back to default language")
	assert.Equal(t, "No autorizado para /admin/secret",
		tr.T("es_ES", "psfs", "errors.not_authorized", i18n.M{"uri": "/admin/secret"}))
	assert.Equal(t, "nope", tr.T("en_US", "psfs", "nope"))
	assert.Equal(t, []string{"nope"}, missing)

	assert.Equal(t, "es_ES", tr.DefaultLanguage())
	assert.Equal(t, []string{"es_ES", "en_US"}, tr.Languages())

	x := i18n.NewTranslator(tr, "", "psfs")
	assert.Equal(t, "es_ES", x.Language())
	assert.Equal(t, "psfs", x.Namespace())
	assert.Equal(t, "Página no encontrada", x.T("errors.not_found"))
}

func TestWithDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(locale, body string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, locale), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, locale, "translations.yml"), []byte(body), 0o644))
	}
	write("es_ES", "setup:\n  title: Configuración\n")
	write("en_US", "setup:\n  title: Setup\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fr"), 0o755))

	tr, err := i18n.New(i18n.WithDir(dir, "translations"))
	require.NoError(t, err)
	assert.Equal(t, "Configuración", tr.T("es_ES", "translations", "setup.title"))
	assert.Equal(t, "Setup", tr.T("en_US", "translations", "setup.title"))
	assert.Equal(t, "Configuración", tr.T("fr", "translations", "setup.title"))

	t.Run("missing dir", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithDir(filepath.Join(dir, "none"), "translations"))
		assert.NoError(t, err)
	})

	t.Run("broken yaml", func(t *testing.T) {
		t.Parallel()
		bad := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(bad, "es_ES"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(bad, "es_ES", "translations.yml"), []byte("a: [b"), 0o644))
		_, err := i18n.New(i18n.WithDir(bad, "translations"))
		assert.ErrorIs(t, err, i18n.ErrLoadCatalog)
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tr, err := i18n.New(
		i18n.WithDefaultLanguage("es_ES"),
		i18n.WithLanguages("en_US", "fr"),
	)
	require.NoError(t, err)

	assert.Equal(t, "en_US", tr.Match("en-US,en;q=0.9"))
	assert.Equal(t, "fr", tr.Match("fr-CA;q=0.8, de;q=0.5"))
	assert.Equal(t, "es_ES", tr.Match(""))
	assert.Equal(t, "es_ES", tr.Match("ja"))
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "locale")
	require.NoError(t, i18n.EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hi Ana, 3 new", i18n.ReplacePlaceholders("Hi %{name}, %{n} new", i18n.M{"name": "Ana", "n": 3}))
	assert.Equal(t, "Hi %{name}", i18n.ReplacePlaceholders("Hi %{name}", nil))
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := i18n.FromContext(t.Context())
	assert.False(t, ok)

	tr, err := i18n.New()
	require.NoError(t, err)
	got, ok := i18n.FromContext(i18n.WithContext(t.Context(), tr))
	require.True(t, ok)
	assert.Same(t, tr, got)
}
