// Package guide holds the shared error contract for the conversation
// pipeline. Collaborator failures are wrapped into one of these sentinels so
// the dispatch layer can degrade to canned speech instead of surfacing an
// internal error to the visitor.
package guide

import "errors"

var (
	// ErrSearchUnavailable wraps embedding or database failures during
	// article retrieval.
	ErrSearchUnavailable = errors.New("article search unavailable")

	// ErrMemoryUnavailable wraps failures of the external user-memory
	// backend.
	ErrMemoryUnavailable = errors.New("user memory unavailable")
)
