package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed        = errors.New("store closed")
	ErrInvalidRecord = errors.New("invalid session record")
)
