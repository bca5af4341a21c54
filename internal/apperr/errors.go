package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidOutcome = errors.New("invalid outcome")
	ErrValidation     = errors.New("validation failed")
	ErrUnavailable    = errors.New("backend unavailable")
)
