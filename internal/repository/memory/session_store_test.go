package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate_LazyCreation(t *testing.T) {
	s, err := NewSessionStore(10)
	require.NoError(t, err)

	sess := s.GetOrCreate("session-1")
	require.NotNil(t, sess)
	assert.Equal(t, "session-1", sess.ID)
	assert.False(t, sess.GreetedThisSession)

	again := s.GetOrCreate("session-1")
	assert.Same(t, sess, again, "second reference must return the same context")
}

func TestGetOrCreate_EmptyIdIsAnonymousSession(t *testing.T) {
	s, err := NewSessionStore(10)
	require.NoError(t, err)

	a := s.GetOrCreate("")
	b := s.GetOrCreate("")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "anonymous sessions must not collide")
}

func TestEviction_LeastRecentlyTouched(t *testing.T) {
	s, err := NewSessionStore(3)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		s.GetOrCreate(fmt.Sprintf("session-%d", i))
	}

	// Touch session-1 via read so session-2 becomes the eviction victim.
	_, found := s.Get("session-1")
	require.True(t, found)

	s.GetOrCreate("session-4")

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("session-1"), "read-touched session must survive")
	assert.False(t, s.Contains("session-2"), "least-recently-touched session must be evicted")
	assert.True(t, s.Contains("session-3"))
	assert.True(t, s.Contains("session-4"))
}

func TestEviction_WriteTouch(t *testing.T) {
	s, err := NewSessionStore(2)
	require.NoError(t, err)

	a := s.GetOrCreate("a")
	s.GetOrCreate("b")

	// Writing back through Touch must refresh recency as well.
	a.LastTopic = "Thorney Island"
	s.Touch(a)

	s.GetOrCreate("c")

	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("b"))
	assert.True(t, s.Contains("c"))
}

func TestEvictedSessionLosesState(t *testing.T) {
	s, err := NewSessionStore(1)
	require.NoError(t, err)

	old := s.GetOrCreate("x")
	old.GreetedThisSession = true

	s.GetOrCreate("y")

	fresh := s.GetOrCreate("x")
	assert.False(t, fresh.GreetedThisSession, "evicted session must come back fresh")
}
