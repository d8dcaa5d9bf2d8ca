package repository

import "errors"

// Common repository errors
var (
	// ErrRowNotFound is returned when an update or delete matched no row
	ErrRowNotFound = errors.New("row not found")
)
