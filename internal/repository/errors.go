package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the query, including
	// the case of a story that exists but belongs to a different user.
	ErrNotFound = errors.New("record not found")
	// ErrEmailExists is returned when inserting a user with an email that
	// is already registered.
	ErrEmailExists = errors.New("email already registered")
)
