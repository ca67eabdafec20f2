// Package prefetch warms full-article context in the background while the
// visitor is still reading a teaser. Results land in a TTL cache keyed by
// session and topic; a later turn may consume them exactly once, and a miss
// simply means the slow path runs as usual.
package prefetch

import (
	"context"
	"log"
	"time"

	"github.com/patrickmn/go-cache"
)

// Result is one prefetched context block, ready to be spliced into the next
// deep-dive prompt.
type Result struct {
	Topic   string
	Content string
	Titles  []string
}

// FetchFunc produces the full context for a topic. It runs on a background
// goroutine with its own deadline.
type FetchFunc func(ctx context.Context) (*Result, error)

type Manager struct {
	store        *cache.Cache
	fetchTimeout time.Duration
	logger       *log.Logger
}

func NewManager(ttl, fetchTimeout time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		store:        cache.New(ttl, 10*time.Minute),
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Start launches the fetch and returns immediately. Errors are logged and
// swallowed: a failed prefetch must never surface to the visitor.
func (m *Manager) Start(sessionId, topic string, fetch FetchFunc) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
		defer cancel()

		res, err := fetch(ctx)
		if err != nil {
			m.logger.Printf("[WARN] Prefetch for %q failed: %v", topic, err)
			return
		}
		if res == nil {
			return
		}
		m.store.Set(key(sessionId, topic), res, cache.DefaultExpiration)
		m.logger.Printf("[DEBUG] Prefetch for %q ready (%d chars)", topic, len(res.Content))
	}()
}

// Consume returns the prefetched result for the session/topic pair and
// removes it, so each prefetch is used at most once. A miss (never started,
// still in flight, expired, or already consumed) returns ok=false.
func (m *Manager) Consume(sessionId, topic string) (*Result, bool) {
	k := key(sessionId, topic)
	v, found := m.store.Get(k)
	if !found {
		return nil, false
	}
	m.store.Delete(k)
	res, ok := v.(*Result)
	return res, ok
}

func key(sessionId, topic string) string {
	return sessionId + "|" + topic
}
