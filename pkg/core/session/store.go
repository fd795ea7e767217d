package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 2 * time.Hour

// Store owns all live sessions. Idle sessions are evicted when new sessions
// are created; there is no background sweeper.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Get returns a live session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	now := st.now()
	if !ok || st.expired(s, now) {
		return nil, false
	}
	s.touch(now)
	return s, true
}

// GetOrCreate returns the session for id, creating one when id is unknown or
// expired. A client-supplied id is reused only if it is a well-formed UUID.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}

	st.mu.Lock()
	now := st.now()
	// Another request may have created it meanwhile.
	if s, ok := st.sessions[id]; ok && !st.expired(s, now) {
		st.mu.Unlock()
		s.touch(now)
		return s, false
	}

	evicted := st.evictIdleLocked(now)

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	s = newSession(id, now)
	st.sessions[id] = s
	live := len(st.sessions)
	st.mu.Unlock()

	// Closing waits for any turn in flight, so it happens outside the store lock.
	for _, old := range evicted {
		old.Close()
		fmt.Printf("[SESSION] evicted idle %s\n", old.ID)
	}
	fmt.Printf("[SESSION] created %s (%d live)\n", id, live)
	return s, true
}

// Delete closes and removes a session.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		s.Close()
		fmt.Printf("[SESSION] closed %s\n", id)
	}
	return ok
}

// Len returns the number of stored sessions, including idle ones not yet evicted.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return now.Sub(s.LastSeen()) > st.idleTTL
}

func (st *Store) evictIdleLocked(now time.Time) []*Session {
	var evicted []*Session
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			evicted = append(evicted, s)
		}
	}
	return evicted
}
