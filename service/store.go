package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/anthonydaros/ContractAI/config"
)

// SessionStore holds live analysis sessions in memory. Sessions are
// ephemeral by design: they expire after a TTL, and the store is capped so
// an abandoned browser tab cannot accumulate state forever. Evicted
// sessions are cancelled so no in-flight request outlives its owner.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
}

func NewSessionStore(cfg *config.SessionsConfig) *SessionStore {
	maxSessions := cfg.MaxSessions
	if maxSessions < 0 {
		maxSessions = 0
	}
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute

	return &SessionStore{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
	}
}

// Save registers a session, evicting expired and oldest entries as needed.
func (s *SessionStore) Save(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	s.cleanupLocked()
}

// Get returns the session with the given ID, or nil.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Delete cancels and removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Cancel()
		delete(s.sessions, id)
	}
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanupLocked drops expired sessions, then the oldest ones while the store
// exceeds its cap. Must be called with the write lock held.
func (s *SessionStore) cleanupLocked() {
	if s.ttl > 0 {
		cutoff := time.Now().Add(-s.ttl)
		for id, sess := range s.sessions {
			if sess.CreatedAt.Before(cutoff) {
				sess.Cancel()
				delete(s.sessions, id)
				slog.Info("expired analysis session removed", "session_id", id)
			}
		}
	}

	if s.maxSessions <= 0 || len(s.sessions) <= s.maxSessions {
		return
	}

	remaining := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		remaining = append(remaining, sess)
	}
	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].CreatedAt.Before(remaining[j].CreatedAt)
	})

	removeCount := len(remaining) - s.maxSessions
	for i := 0; i < removeCount; i++ {
		remaining[i].Cancel()
		delete(s.sessions, remaining[i].ID)
		slog.Info("evicting oldest analysis session",
			"session_id", remaining[i].ID,
			"created_at", remaining[i].CreatedAt,
		)
	}
}
