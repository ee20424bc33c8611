package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no secret was provided.
	ErrNoSecret = errors.New("no secret provided for cookie manager")
	// ErrSecretTooShort indicates a secret shorter than 32 characters.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")
	// ErrInvalidSignature indicates tampering or a rotated-out secret.
	ErrInvalidSignature = errors.New("cookie signature verification failed")
	// ErrCookieNotFound indicates the requested cookie is not in the request.
	ErrCookieNotFound = errors.New("cookie not found in request")
	// ErrInvalidFormat indicates the cookie value is not a signed value.
	ErrInvalidFormat = errors.New("invalid cookie format")
)

// ErrCookieTooLarge indicates the cookie exceeds the maximum allowed size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

// Error implements the error interface.
func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
