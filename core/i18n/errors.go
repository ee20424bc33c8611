package i18n

import "errors"

var (
	ErrInvalidLocale  = errors.New("i18n: invalid locale")
	ErrEmptyNamespace = errors.New("i18n: namespace cannot be empty")
	ErrLoadCatalog    = errors.New("i18n: failed to load catalog")
)
