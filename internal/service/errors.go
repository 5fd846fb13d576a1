package service

import "errors"

var (
	// ErrValidation marks missing or empty required fields. Handlers map
	// it to a 400 response.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrStoryNotFound covers both a missing story and one owned by a
	// different user; callers cannot tell the two apart.
	ErrStoryNotFound = errors.New("travel story not found")
)
