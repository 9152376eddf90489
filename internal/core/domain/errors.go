package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousID indicates an ID prefix matches more than one analysis.
	ErrAmbiguousID = errors.New("ambiguous id prefix")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNoLastModified indicates a probed resource carries no usable
	// Last-Modified header. The resource is skipped, not reported.
	ErrNoLastModified = errors.New("no last-modified header")

	// ErrRateLimited indicates a remote host rejected requests with 429.
	ErrRateLimited = errors.New("rate limited")
)
