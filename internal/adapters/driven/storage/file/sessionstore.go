// Package file provides file-backed persistence for the docuflow CLI.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.TokenStore = (*SessionStore)(nil)

// SessionStore persists the token pair and cached profile in a TOML file
// within the docuflow config directory. The file is the CLI's equivalent
// of the browser client's key-value session storage and holds nothing
// else: document and version state is always re-fetched.
type SessionStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSessionStore creates a session store under configDir.
// If configDir is empty, defaults to ~/.docuflow.
func NewSessionStore(configDir string) (*SessionStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docuflow")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{filePath: filepath.Join(configDir, "session.toml")}, nil
}

// Get returns the stored session, or nil when logged out.
func (s *SessionStore) Get() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var session domain.Session
	if err := toml.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Tokens.Access == "" && session.Tokens.Refresh == "" {
		return nil, nil
	}
	return &session, nil
}

// Put stores a session, replacing any previous one.
func (s *SessionStore) Put(session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(session)
	if err != nil {
		return err
	}

	// Tokens are secrets: restrict permissions.
	return os.WriteFile(s.filePath, data, 0600)
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
