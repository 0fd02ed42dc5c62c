package documents

import "errors"

var (
	// ErrNotFound covers both an absent record and a record owned by another
	// user. The two must never be distinguishable to the caller.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidID indicates an identifier that does not match the store's
	// identifier format. Rejected before any store call.
	ErrInvalidID = errors.New("invalid document id")

	// ErrEmptyPatch indicates an update with no recognized fields.
	ErrEmptyPatch = errors.New("no fields to update")
)
