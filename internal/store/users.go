// Package store implements the local JSON-file persistence for users
// and sessions. These are simple I/O wrappers: every read loads the
// whole file, every write rewrites it. A mutex serializes access within
// the process.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/juju/clock"

	"carstock/internal/apperr"
	"carstock/internal/model"
	"carstock/internal/utils"
)

// Default credentials for the bootstrap administrator account created
// when the users file does not exist yet.
const (
	DefaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// UserStore persists username -> user records in a JSON file.
type UserStore struct {
	path  string
	clock clock.Clock
	mu    sync.Mutex
}

// NewUserStore returns a store backed by the file at path.
func NewUserStore(path string, clk clock.Clock) *UserStore {
	return &UserStore{path: path, clock: clk}
}

// Load reads the users file. A missing or unreadable file bootstraps a
// default administrator so the system is never locked out.
func (s *UserStore) Load() (map[string]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *UserStore) loadLocked() (map[string]model.User, error) {
	raw, err := os.ReadFile(s.path)
	if err == nil {
		users := map[string]model.User{}
		if jsonErr := json.Unmarshal(raw, &users); jsonErr == nil {
			return users, nil
		}
	}
	users := map[string]model.User{
		DefaultAdminUsername: {
			Username:     DefaultAdminUsername,
			PasswordHash: utils.HashPassword(defaultAdminPassword),
			Role:         "admin",
			Name:         "Administrator",
			CreatedAt:    s.clock.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.saveLocked(users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create adds a user. The username must not exist yet and the role must
// appear in the static role table.
func (s *UserStore) Create(username, password, name, role string) (model.User, error) {
	if !model.ValidRole(role) {
		return model.User{}, fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadLocked()
	if err != nil {
		return model.User{}, err
	}
	if _, exists := users[username]; exists {
		return model.User{}, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
	}
	u := model.User{
		Username:     username,
		PasswordHash: utils.HashPassword(password),
		Role:         role,
		Name:         name,
		CreatedAt:    s.clock.Now().UTC().Format(time.RFC3339),
	}
	users[username] = u
	if err := s.saveLocked(users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Delete removes a user. The bootstrap administrator is protected.
func (s *UserStore) Delete(username string) error {
	if username == DefaultAdminUsername {
		return fmt.Errorf("%w: the primary administrator cannot be deleted", apperr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadLocked()
	if err != nil {
		return err
	}
	if _, exists := users[username]; !exists {
		return fmt.Errorf("%w: user %q", apperr.ErrNotFound, username)
	}
	delete(users, username)
	return s.saveLocked(users)
}

func (s *UserStore) saveLocked(users map[string]model.User) error {
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
