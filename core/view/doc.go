// Package view renders the terminal pages of the request core (not found,
// not authorized, setup wizard) as templ components.
//
// Text is looked up through a Localizer, usually an *i18n.Translator bound to
// the "psfs" namespace. Catalog returns built-in texts that applications can
// override with their own locale files.
//
//	page := view.NotFound(tr, "")
//	body, err := view.Render(ctx, page)
package view
