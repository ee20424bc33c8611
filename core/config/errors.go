package config

import "errors"

var (
	ErrReadParams  = errors.New("config: failed to read parameters file")
	ErrWriteParams = errors.New("config: failed to write parameters file")
	ErrMissingKeys = errors.New("config: required parameters are missing")
)
