package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyClosed is returned when ending a session or application
	// interval that already has an end time
	ErrAlreadyClosed = errors.New("already closed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
