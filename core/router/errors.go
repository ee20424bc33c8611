package router

import "errors"

var (
	ErrNoAdmin       = errors.New("router: no admin entry point configured")
	ErrNotDispatched = errors.New("router: matched route did not run")
)
