package service

import "errors"

// Business-rule failures are normal control flow for callers: handlers map
// ErrNotFound to 404 and ErrConflict to 409. Anything else propagating out of
// a service is an infrastructure failure (storage unreachable) and surfaces
// as a 500 without retry inside the core.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
