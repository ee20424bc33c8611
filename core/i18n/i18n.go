package i18n

import (
	"slices"

	"golang.org/x/text/language"
)

// DefaultLang is the fallback language when none is configured.
const DefaultLang = "es_ES"

// I18n holds flattened catalogs. Immutable after New.
type I18n struct {
	// key format: "locale:namespace:key.path"
	translations      map[string]string
	defaultLang       string
	languages         []string
	loaded            []string
	matcher           language.Matcher
	missingKeyHandler func(lang, namespace, key string)
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New applies opts in order. WithDefaultLanguage should come first so that
// catalogs loaded afterwards see the final default.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	i.languages = i.buildLanguages()
	tags := make([]language.Tag, 0, len(i.languages))
	for _, l := range i.languages {
		tags = append(tags, tagOf(l))
	}
	i.matcher = language.NewMatcher(tags)
	return i, nil
}

// WithDefaultLanguage sets the fallback language. The value is normalized.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		norm, err := Normalize(lang)
		if err != nil {
			return err
		}
		i.defaultLang = norm
		return nil
	}
}

// WithLanguages declares supported languages in addition to the loaded ones.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		for _, l := range langs {
			norm, err := Normalize(l)
			if err != nil {
				return err
			}
			i.loaded = append(i.loaded, norm)
		}
		return nil
	}
}

// WithMissingKeyHandler is called when a key is found in no language.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// WithTranslations registers a nested catalog for lang and namespace.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		norm, err := Normalize(lang)
		if err != nil {
			return err
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		for key, value := range flatten(translations, "") {
			i.translations[buildKey(norm, namespace, key)] = value
		}
		i.loaded = append(i.loaded, norm)
		return nil
	}
}

// T returns the translation of key, falling back to the default language and
// finally to the key itself.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	if norm, err := Normalize(lang); err == nil {
		lang = norm
	}
	if tr, ok := i.translations[buildKey(lang, namespace, key)]; ok {
		return replacePlaceholders(tr, placeholders...)
	}
	if lang != i.defaultLang {
		if tr, ok := i.translations[buildKey(i.defaultLang, namespace, key)]; ok {
			return replacePlaceholders(tr, placeholders...)
		}
	}
	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}
	return key
}

// Match picks the best supported language for an Accept-Language header.
func (i *I18n) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return i.defaultLang
	}
	_, idx, conf := i.matcher.Match(tags...)
	if conf == language.No {
		return i.defaultLang
	}
	return i.languages[idx]
}

// Languages returns the default language first, then the others sorted.
func (i *I18n) Languages() []string {
	return slices.Clone(i.languages)
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func (i *I18n) buildLanguages() []string {
	others := slices.DeleteFunc(slices.Clone(i.loaded), func(l string) bool { return l == i.defaultLang })
	slices.Sort(others)
	return append([]string{i.defaultLang}, slices.Compact(others)...)
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}
