package services

import "errors"

// Service-level failure taxonomy. Controllers map these onto HTTP statuses;
// ErrStoreUnavailable is the only kind callers should retry.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrEmptyContent     = errors.New("empty content")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store-level sentinels surfaced by the Datastore implementation.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrConditionFailed = errors.New("conditional check failed")
)
