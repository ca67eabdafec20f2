// Package memory abstracts the external user-memory graph. The guide only
// needs two capabilities from it: recalling stored facts about a returning
// user and appending conversation turns for future recall. The provider must
// be usable when the backend is entirely absent - the Noop implementation
// satisfies every call without doing anything.
package memory

import "context"

// Provider is the contract for the user memory/graph backend.
type Provider interface {
	// SearchFacts returns known fact strings for the user. An unknown user
	// yields an empty slice, not an error.
	SearchFacts(ctx context.Context, userId string) ([]string, error)

	// AppendMessage records one side of an exchange for future recall.
	AppendMessage(ctx context.Context, userId, role, text string) error

	// Enabled reports whether a real backend is configured. Callers may use
	// it to skip work, but calling a disabled provider is always safe.
	Enabled() bool
}

// NoopProvider is used when no memory backend credential is configured.
// Every call succeeds and reports nothing known.
type NoopProvider struct{}

func NewNoopProvider() Provider {
	return &NoopProvider{}
}

func (p *NoopProvider) SearchFacts(ctx context.Context, userId string) ([]string, error) {
	return nil, nil
}

func (p *NoopProvider) AppendMessage(ctx context.Context, userId, role, text string) error {
	return nil
}

func (p *NoopProvider) Enabled() bool {
	return false
}
