package memory

import (
	"sync"

	"lost-london-agent/pkg/store"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SessionStore is the bounded in-memory home of all live SessionContexts.
// Capacity overflow evicts the least-recently-touched session; both reads
// and writes count as a touch. Nothing here survives a restart.
type SessionStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *store.SessionContext]
}

func NewSessionStore(capacity int) (*SessionStore, error) {
	c, err := lru.New[string, *store.SessionContext](capacity)
	if err != nil {
		return nil, err
	}
	return &SessionStore{cache: c}, nil
}

// GetOrCreate returns the live context for the session id, creating one
// lazily on first reference. A missing id is treated as a fresh anonymous
// session, never an error.
func (s *SessionStore) GetOrCreate(sessionId string) *store.SessionContext {
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, found := s.cache.Get(sessionId); found {
		return sess
	}
	sess := &store.SessionContext{ID: sessionId}
	s.cache.Add(sessionId, sess)
	return sess
}

// Get returns the context without creating one. The lookup still counts as
// an LRU touch.
func (s *SessionStore) Get(sessionId string) (*store.SessionContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(sessionId)
}

// Touch re-registers the session as most recently used after a mutation.
func (s *SessionStore) Touch(sess *store.SessionContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(sess.ID, sess)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Contains reports membership without counting as a touch.
func (s *SessionStore) Contains(sessionId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Contains(sessionId)
}

func (s *SessionStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}
