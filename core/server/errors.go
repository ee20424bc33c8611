package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server: address is required")
	ErrFailedLoadCert       = errors.New("server: failed to load certificate")
	ErrServerAlreadyRunning = errors.New("server: already running")
)
