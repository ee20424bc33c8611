package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Normalize converts a locale such as "es-es", "ES_es" or "es" into the
// underscore form used for catalog directories ("es_ES", "es").
// The region is kept only when it was given explicitly.
func Normalize(locale string) (string, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", fmt.Errorf("%w: empty locale", ErrInvalidLocale)
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidLocale, locale, err)
	}

	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.Exact {
		return base.String() + "_" + region.String(), nil
	}
	return base.String(), nil
}

func tagOf(locale string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}
