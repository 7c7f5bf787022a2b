// Package session owns the bearer credential for the lifetime of a CLI
// invocation. The token is treated as opaque: validity is determined
// lazily by whether requests carrying it succeed.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cloudbox/cloudbox-cli/internal/events"
)

// Reasons reported on the session-invalidated event.
const (
	ReasonLogout      = "logout"
	ReasonAuthFailure = "auth_failure"
)

// Store holds the current bearer credential. Safe for concurrent use.
// Clearing the store publishes a single EventSessionInvalidated on the
// bus; components reacting to forced logout subscribe there instead of
// inspecting the store ad hoc.
type Store struct {
	mu       sync.RWMutex
	token    string
	eventBus *events.EventBus
}

// NewStore creates an empty session store. The event bus may be nil in
// tests.
func NewStore(eventBus *events.EventBus) *Store {
	return &Store{eventBus: eventBus}
}

// Set installs a bearer token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a bearer token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Clear drops the credential and publishes the invalidation event.
// Clearing an already-empty store is a no-op and publishes nothing.
func (s *Store) Clear(reason string) {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.mu.Unlock()

	if had && s.eventBus != nil {
		s.eventBus.Publish(events.NewSessionInvalidatedEvent(reason))
	}
}

// tokenFileName is the file under the config dir holding the saved
// token between CLI invocations. A CLI process is shorter-lived than
// the browser tab the session was designed around, so the file plays
// the role of tab-session storage.
const tokenFileName = "session"

// SaveToken persists the token under dir with owner-only permissions.
func SaveToken(dir, token string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	path := filepath.Join(dir, tokenFileName)
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadToken reads a previously saved token. A missing file yields "".
func LoadToken(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// RemoveToken deletes the saved token, if any.
func RemoveToken(dir string) error {
	err := os.Remove(filepath.Join(dir, tokenFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
