package view

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/psfs/core/i18n"
)

// Namespace is the translation namespace of the built-in pages.
const Namespace = "psfs"

// Localizer resolves page texts. *i18n.Translator satisfies it.
type Localizer interface {
	T(key string, placeholders ...i18n.M) string
	Language() string
}

// Render renders c into a byte slice.
func Render(ctx context.Context, c templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
