// Package credentials persists the access and refresh tokens issued by the
// backend between runs.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store holds the token pair for the current session.
type Store interface {
	// Tokens returns the persisted access and refresh tokens. Both are
	// empty when no session is persisted.
	Tokens() (access, refresh string)
	// SetTokens replaces the persisted token pair.
	SetTokens(access, refresh string) error
	// Clear removes the persisted tokens.
	Clear() error
}

// AccessTokenExpired reports whether the access token carries an exp claim
// in the past. Tokens that are not parseable JWTs are treated as opaque and
// never reported expired; the server remains the authority for those.
func AccessTokenExpired(access string, now time.Time) bool {
	if access == "" {
		return false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// MemoryStore keeps tokens in process memory. Used in tests and by
// embedders that manage persistence themselves.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Tokens returns the current token pair.
func (s *MemoryStore) Tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

// SetTokens replaces the token pair.
func (s *MemoryStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// Clear removes the token pair.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}

// FileStore persists tokens as a 0600 JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type tokenFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewFileStore creates a file-backed store at path. The parent directory is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Tokens reads the persisted token pair. A missing or unreadable file means
// no session.
func (s *FileStore) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", ""
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", ""
	}
	return tf.AccessToken, tf.RefreshToken
}

// SetTokens writes the token pair to disk.
func (s *FileStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := json.Marshal(tokenFile{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
