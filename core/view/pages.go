package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/psfs/core/i18n"
)

// Field is one input of the setup form.
type Field struct {
	Name  string
	Value string
}

// SetupForm describes the setup wizard page.
type SetupForm struct {
	Action string
	Fields []Field
	Error  string
	Saved  bool
}

// NotFound renders the 404 page. diagnostic is shown verbatim (escaped) when not empty.
func NotFound(l Localizer, diagnostic string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeStrings(w,
			"<h1>", templ.EscapeString(l.T("not_found.title")), "</h1>",
			"<p>", templ.EscapeString(l.T("not_found.message")), "</p>",
		); err != nil {
			return err
		}
		if diagnostic == "" {
			return nil
		}
		return writeStrings(w, `<pre class="diagnostic">`, templ.EscapeString(diagnostic), "</pre>")
	})
	return layout(l, l.T("not_found.title"), body)
}

// NotAuthorized renders the 401 page naming the denied uri.
func NotAuthorized(l Localizer, uri string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeStrings(w,
			"<h1>", templ.EscapeString(l.T("not_authorized.title")), "</h1>",
			"<p>", templ.EscapeString(l.T("not_authorized.message", i18n.M{"uri": uri})), "</p>",
		)
	})
	return layout(l, l.T("not_authorized.title"), body)
}

// Setup renders the configuration wizard form.
func Setup(l Localizer, form SetupForm) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeStrings(w,
			"<h1>", templ.EscapeString(l.T("setup.title")), "</h1>",
			"<p>", templ.EscapeString(l.T("setup.intro")), "</p>",
		); err != nil {
			return err
		}
		if form.Saved {
			if err := writeStrings(w, `<p class="saved">`, templ.EscapeString(l.T("setup.saved")), "</p>"); err != nil {
				return err
			}
		}
		if form.Error != "" {
			if err := writeStrings(w, `<p class="error">`, templ.EscapeString(form.Error), "</p>"); err != nil {
				return err
			}
		}
		if err := writeStrings(w, `<form method="post" action="`, templ.EscapeString(form.Action), `">`); err != nil {
			return err
		}
		for _, f := range form.Fields {
			name := templ.EscapeString(f.Name)
			if err := writeStrings(w,
				`<label for="`, name, `">`, name, "</label>",
				`<input type="text" id="`, name, `" name="`, name, `" value="`, templ.EscapeString(f.Value), `">`,
			); err != nil {
				return err
			}
		}
		return writeStrings(w,
			`<button type="submit">`, templ.EscapeString(l.T("setup.submit")), "</button></form>",
		)
	})
	return layout(l, l.T("setup.title"), body)
}

func layout(l Localizer, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeStrings(w,
			"<!doctype html>",
			`<html lang="`, templ.EscapeString(htmlLang(l.Language())), `">`,
			`<head><meta charset="utf-8"><title>`, templ.EscapeString(title), "</title></head>",
			"<body><main>",
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return writeStrings(w, "</main></body></html>")
	})
}

func htmlLang(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}

func writeStrings(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}
