package beacon

import "errors"

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts for a request are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during a retry pause.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrDecode is returned when a beacon node response cannot be decoded.
	ErrDecode = errors.New("undecodable beacon response")

	// ErrHeadNotFound is returned when the head header listing is empty.
	ErrHeadNotFound = errors.New("no headers found at chain head")

	// ErrInvalidRoot is returned when a block root hex string cannot be parsed.
	ErrInvalidRoot = errors.New("invalid block root")
)
