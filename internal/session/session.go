// Package session persists the logged-in user's token between invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"taskdeck/internal/service"
)

// ErrNoSession indicates no stored session (not logged in).
var ErrNoSession = errors.New("not logged in")

// Session is the process-wide authentication state: the bearer token and the
// user it belongs to. Created on login or register, destroyed on logout.
// Expiry is not checked locally; it surfaces as a 401 from the server.
type Session struct {
	Token string       `json:"token"`
	User  service.User `json:"user"`
}

// Load reads a session from path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save writes the session to path with mode 0600.
func Save(path string, s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
