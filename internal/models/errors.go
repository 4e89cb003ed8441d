package models

import "errors"

// Error kinds shared by the services and the HTTP layer. Wrap them with %w.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state transition")
	ErrRemote       = errors.New("remote call failed")
)
