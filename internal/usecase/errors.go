package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrNoDataset             = errors.New("no dataset loaded")
	ErrInsufficientData      = errors.New("insufficient data")
	ErrMalformedInput        = errors.New("malformed input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
