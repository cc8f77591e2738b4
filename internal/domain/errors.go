package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidMode        = errors.New("invalid banner mode")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrProviderFailure    = errors.New("provider failure")
	ErrModeLeakage        = errors.New("mode leakage")
	ErrGenerationTimeout  = errors.New("generation timed out")
)
