package repository

import "errors"

var (
	// ErrLogNotFound is returned when a collection log row cannot be found.
	ErrLogNotFound = errors.New("collection log not found")
)
