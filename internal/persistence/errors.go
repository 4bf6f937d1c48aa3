package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("persistence: conflict")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("persistence: foreign key violation")
)
