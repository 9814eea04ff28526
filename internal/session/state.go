package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cookie is a browser cookie in playwright storage state format
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// NameValue is one local storage entry
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Origin holds the local storage of one origin
type Origin struct {
	Origin       string      `json:"origin"`
	LocalStorage []NameValue `json:"localStorage"`
}

// State is a playwright storage state document. A file written by Write
// can be passed to BrowserNewContextOptions.StorageStatePath.
type State struct {
	Cookies []Cookie `json:"cookies"`
	Origins []Origin `json:"origins"`
}

// Cookie returns the cookie called name, or nil
func (s *State) Cookie(name string) *Cookie {
	for i := range s.Cookies {
		if s.Cookies[i].Name == name {
			return &s.Cookies[i]
		}
	}
	return nil
}

// Valid reports whether the cookie called name is present and not expired
// at now. Session cookies, with Expires -1, never expire.
func (s *State) Valid(name string, now time.Time) bool {
	c := s.Cookie(name)
	if c == nil || c.Value == "" {
		return false
	}
	return c.Expires <= 0 || float64(now.Unix()) < c.Expires
}

// ReadState loads the state file at path
func ReadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("invalid storage state %s: %w", path, err)
	}
	return &state, nil
}

// Write stores the state at path, readable by the owner only
func (s *State) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if s.Cookies == nil {
		s.Cookies = []Cookie{}
	}
	if s.Origins == nil {
		s.Origins = []Origin{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temporary file in the same directory so readers never see a partial state.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".storage-state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
