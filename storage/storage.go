// Package storage persists scrape results as file-based sessions. Each
// session is one JSON file named by its UUID; writes go through a temp file
// and rename so a crash never leaves a half-written session behind.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ytscraper/youtube"
)

// Sentinel errors for common session conditions.
var (
	// ErrNotFound indicates the requested session does not exist.
	ErrNotFound = errors.New("storage: session not found")
	// ErrSessionExpired indicates the session exists but is past its TTL.
	ErrSessionExpired = errors.New("storage: session expired")
)

// Session is one stored scrape result.
type Session struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Result    *youtube.ScrapeResult `json:"result"`
}

// SessionStore keeps sessions in a directory, one file per session.
// It is safe for concurrent use: every mutation is a whole-file atomic
// replace and reads never see partial writes.
type SessionStore struct {
	dir    string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSessionStore opens (creating if needed) a session directory. Sessions
// older than ttl are treated as expired and removed by Cleanup.
func NewSessionStore(dir string, ttl time.Duration) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create session dir: %w", err)
	}
	return &SessionStore{dir: dir, ttl: ttl, logger: zerolog.Nop()}, nil
}

// SetLogger replaces the store's logger.
func (s *SessionStore) SetLogger(l zerolog.Logger) {
	s.logger = l
}

// Save stores a result under a fresh session ID and returns the ID.
func (s *SessionStore) Save(result *youtube.ScrapeResult) (string, error) {
	id := uuid.NewString()
	if err := s.Put(id, result); err != nil {
		return "", err
	}
	return id, nil
}

// Put stores a result under the given session ID, replacing any previous
// session with that ID.
func (s *SessionStore) Put(id string, result *youtube.ScrapeResult) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("storage: invalid session id %q: %w", id, err)
	}

	session := Session{ID: id, CreatedAt: time.Now().UTC(), Result: result}

	w, err := NewAtomicWriter(s.path(id))
	if err != nil {
		return fmt.Errorf("storage: put session %s: %w", id, err)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(session); err != nil {
		w.Abort()
		return fmt.Errorf("storage: encode session %s: %w", id, err)
	}
	if err := w.Commit(); err != nil {
		return fmt.Errorf("storage: commit session %s: %w", id, err)
	}
	return nil
}

// Get loads a session by ID. Missing or malformed IDs yield ErrNotFound; a
// session past its TTL is deleted and yields ErrSessionExpired.
func (s *SessionStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: read session %s: %w", id, err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("storage: decode session %s: %w", id, err)
	}

	if s.ttl > 0 && time.Since(session.CreatedAt) > s.ttl {
		if err := s.Delete(id); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("failed to remove expired session")
		}
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete session %s: %w", id, err)
	}
	return nil
}

// Cleanup sweeps the session directory and removes files older than the
// TTL. It returns the number of sessions removed.
func (s *SessionStore) Cleanup() int {
	if s.ttl <= 0 {
		return 0
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("session sweep failed")
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-s.ttl)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to remove stale session")
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("swept expired sessions")
	}
	return removed
}

func (s *SessionStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
