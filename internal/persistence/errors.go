package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrAlreadyExists is returned when a record with the same ID is already stored.
	ErrAlreadyExists = errors.New("persistence: already exists")
)
