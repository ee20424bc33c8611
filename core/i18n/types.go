package i18n

// M maps placeholder names to values.
type M map[string]any
