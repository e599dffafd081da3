package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrAlreadyRunning indicates Run was called more than once.
	ErrAlreadyRunning = errors.New("engine already running")

	// ErrNotMounted indicates an operation that needs a mounted engine.
	ErrNotMounted = errors.New("engine not mounted")

	// ErrAlreadyMounted indicates Mount was called on an engine that is or
	// was mounted. Unmount is final.
	ErrAlreadyMounted = errors.New("engine already mounted")
)
