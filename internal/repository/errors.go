package repository

import "errors"

var (
	// ErrNotFound is returned when a requested run doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRun is returned when a run ID is archived twice
	ErrDuplicateRun = errors.New("run already archived")
)
