package view

import (
	"net/http"

	"github.com/dmitrymomot/psfs/core/i18n"
)

// NewI18n builds translations seeded with Catalog. Options run after the
// built-in texts, so locale files override them.
func NewI18n(opts ...i18n.Option) (*i18n.I18n, error) {
	seed := make([]i18n.Option, 0, len(opts)+2)
	for locale, catalog := range Catalog() {
		seed = append(seed, i18n.WithTranslations(locale, Namespace, catalog))
	}
	return i18n.New(append(seed, opts...)...)
}

var fallback, _ = NewI18n()

// For returns a translator for the language r prefers among those tr knows.
// A nil tr uses the translations stored in the request context, then the
// built-in texts.
func For(tr *i18n.I18n, r *http.Request) *i18n.Translator {
	if tr == nil && r != nil {
		tr, _ = i18n.FromContext(r.Context())
	}
	if tr == nil {
		tr = fallback
	}
	lang := tr.DefaultLanguage()
	if r != nil {
		if accept := r.Header.Get("Accept-Language"); accept != "" {
			lang = tr.Match(accept)
		}
	}
	return i18n.NewTranslator(tr, lang, Namespace)
}

// Language returns the language r's pages render in. It is a cache
// fingerprint dimension: localized pages must not be replayed across languages.
func Language(r *http.Request) string {
	return For(nil, r).Language()
}
