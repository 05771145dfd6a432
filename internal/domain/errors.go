package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals malformed caller input. No fallback is attempted.
	ErrValidation = errors.New("invalid request")
	// ErrIndexUnavailable signals that the full-text index cannot be reached.
	// It is absorbed by the store fallback path and never reaches the caller.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrQueryTimeout signals a relational query that missed its deadline.
	ErrQueryTimeout = errors.New("query timeout")
	// ErrSchemaDrift signals a query referencing an optional column or table
	// that this deployment's schema does not have.
	ErrSchemaDrift = errors.New("schema drift")
	// ErrStoreUnavailable signals that the authoritative store is unreachable.
	// This is the only class that propagates as a hard failure on the read path.
	ErrStoreUnavailable = errors.New("store unavailable")
)
