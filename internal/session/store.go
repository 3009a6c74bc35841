package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/calnico/clinicbook/internal/config"
)

const sessionFile = "session.yaml"

// ErrNoSession is returned when no session file exists or the stored token
// is empty. Callers surface this as a session-expired message directing the
// user to log in again.
var ErrNoSession = errors.New("no active session: run 'clinicbook login'")

// fileMutex guards session file operations.
var fileMutex sync.Mutex

func sessionPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// Load reads the persisted session. Returns ErrNoSession when absent or
// when the stored token is empty.
func Load() (*Session, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save persists the session with an atomic write. The file is created with
// user-only permissions since it holds the bearer token.
func (s *Session) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := sessionPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temporary file first, then rename (atomic on all platforms).
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary session file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save session file: %w", err)
	}

	return nil
}

// Clear removes the persisted session. Clearing an absent session is not
// an error.
func Clear() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
