package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a write violates a uniqueness
	// constraint, such as the activity dedup tuple or a user email.
	ErrDuplicate = errors.New("persistence: duplicate record")
)
