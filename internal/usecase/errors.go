package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnresolvedReference   = errors.New("unresolved match reference")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrExtractionExhausted   = errors.New("all extraction tiers exhausted")
)
