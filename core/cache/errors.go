package cache

import "errors"

var (
	ErrNotFound         = errors.New("cache: entry not found")
	ErrUnsupportedValue = errors.New("cache: unsupported value for format")
	ErrInvalidKey       = errors.New("cache: invalid key")
	ErrCorruptEntry     = errors.New("cache: corrupt entry")
	ErrUnknownBackend   = errors.New("cache: unknown backend")
	ErrClosed           = errors.New("cache: backend closed")
)
