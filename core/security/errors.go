package security

import "errors"

var ErrNoSession = errors.New("security: no session started for request")
