package state

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrInvalidSession = errors.New("session id is empty")

// MemoryStore is a keyed in-memory session store. Sessions are created
// lazily on first access and never evicted; the store lives for the process
// lifetime by design. Access to one session is serialized through a
// per-session mutex held for the whole tool-call sequence of a message,
// while distinct sessions proceed concurrently.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

type sessionEntry struct {
	mu    sync.Mutex
	state *SessionState
}

type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the store clock, used by tests for fixed "today".
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Acquire returns the session state for sessionID, creating an empty one on
// first sight, with its per-session lock held. The caller must invoke the
// release func unconditionally when the tool-call sequence completes.
func (s *MemoryStore) Acquire(sessionID string) (*SessionState, func(), error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, nil, ErrInvalidSession
	}

	s.mu.Lock()
	entry, ok := s.sessions[id]
	if !ok {
		entry = &sessionEntry{state: NewSessionState(id, s.now())}
		s.sessions[id] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	return entry.state, entry.mu.Unlock, nil
}

// Len reports how many sessions exist. Diagnostics only.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
