// Package session holds the signed-in user's state. A Session is created at
// sign-in and handed to the screen controllers that need it; Close tears it
// down at logout.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"outfit-studio/internal/models"
)

// Profile is the cached profile document of the signed-in user, in the same
// shape the backend serves it.
type Profile = models.ProfileResponse

type Session struct {
	mu      sync.RWMutex
	userID  string
	token   string
	profile Profile
	closed  bool
}

func New(userID, token string, profile Profile) *Session {
	return &Session{
		userID:  userID,
		token:   token,
		profile: profile,
	}
}

// Anonymous returns a session with no user, used before sign-in.
func Anonymous() *Session {
	return &Session{}
}

// LoadProfile reads a cached profile JSON file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile, nil
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile replaces the cached profile, e.g. after the remote document was
// refreshed.
func (s *Session) SetProfile(profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.profile = profile
}

// GeneratedRecords returns a copy of the user's generated records. A closed
// session has none.
func (s *Session) GeneratedRecords() []models.GeneratedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	return append([]models.GeneratedRecord(nil), s.profile.CreatedImages...)
}

// AddGeneratedRecord appends a record after a successful generation.
func (s *Session) AddGeneratedRecord(record models.GeneratedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.profile.CreatedImages = append(s.profile.CreatedImages, record)
}

// Close ends the session and forgets the user's state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.token = ""
	s.profile = Profile{}
}

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
