// Package i18n provides immutable translation catalogs keyed by locale and
// namespace, with locale normalization and Accept-Language matching backed by
// golang.org/x/text/language.
//
// Catalogs are YAML files laid out as <dir>/<locale>/<namespace>.yml:
//
//	locale/
//	  es_ES/translations.yml
//	  en_US/translations.yml
//
// Nested keys are flattened with dots and placeholders use %{name}:
//
//	i, err := i18n.New(
//		i18n.WithDefaultLanguage("es_ES"),
//		i18n.WithDir("locale", "translations"),
//	)
//	msg := i.T("en_US", "translations", "errors.not_found", i18n.M{"uri": "/x"})
//
// Lookups fall back to the default language, then to the key itself.
// An I18n is safe for concurrent use once built.
package i18n
