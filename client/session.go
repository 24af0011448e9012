package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the signed-in state of one board user. It is loaded once, kept
// by the Client that uses it, and written back only on login and logout.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// LoadSession reads a session file. A missing file is an empty session.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session failed: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session failed: %w", err)
	}
	return &s, nil
}

// Save writes the session with owner-only permissions since it holds a
// bearer token.
func (s *Session) Save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir failed: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write session failed: %w", err)
	}
	return nil
}

func RemoveSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session failed: %w", err)
	}
	return nil
}
