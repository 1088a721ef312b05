package store

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/juju/clock"

	"carstock/internal/model"
	"carstock/internal/utils"
)

// SessionTTL is the lifetime of a bearer session. There is no refresh
// flow; clients log in again after expiry.
const SessionTTL = 7 * 24 * time.Hour

// SessionStore persists token -> session records in a JSON file.
// Expired entries are evicted on every load rather than by a timer.
type SessionStore struct {
	path  string
	clock clock.Clock
	mu    sync.Mutex
}

// NewSessionStore returns a store backed by the file at path.
func NewSessionStore(path string, clk clock.Clock) *SessionStore {
	return &SessionStore{path: path, clock: clk}
}

// Create mints a new opaque token for the given identity and stores it
// with a 7-day expiry.
func (s *SessionStore) Create(username, role string) (string, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.loadLocked()
	now := s.clock.Now().UTC()
	sessions[token] = model.Session{
		Username:  username,
		Role:      role,
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(SessionTTL).Format(time.RFC3339),
	}
	if err := s.saveLocked(sessions); err != nil {
		return "", err
	}
	return token, nil
}

// Verify resolves a token to its session. The boolean is false for
// unknown and expired tokens alike.
func (s *SessionStore) Verify(token string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.loadLocked()[token]
	return sess, ok
}

// DeleteByUsername removes every session owned by the given user.
// Logout invalidates all of a user's tokens at once.
func (s *SessionStore) DeleteByUsername(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.loadLocked()
	for token, sess := range sessions {
		if sess.Username == username {
			delete(sessions, token)
		}
	}
	return s.saveLocked(sessions)
}

// loadLocked reads the sessions file and purges expired entries. When
// anything was purged the pruned map is written back immediately.
func (s *SessionStore) loadLocked() map[string]model.Session {
	sessions := map[string]model.Session{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return sessions
	}
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return map[string]model.Session{}
	}
	now := s.clock.Now().UTC()
	active := make(map[string]model.Session, len(sessions))
	for token, sess := range sessions {
		exp, err := time.Parse(time.RFC3339, sess.ExpiresAt)
		if err == nil && exp.After(now) {
			active[token] = sess
		}
	}
	if len(active) != len(sessions) {
		_ = s.saveLocked(active)
	}
	return active
}

func (s *SessionStore) saveLocked(sessions map[string]model.Session) error {
	raw, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
