package store

import (
	"sync"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

// PreferencesStore persists one preferences record per client id.
type PreferencesStore interface {
	Set(prefs domain.Preferences)
	Get(clientID string) (domain.Preferences, bool)
}

// MemoryStore keeps preferences in a thread-safe map for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]domain.Preferences
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefs: make(map[string]domain.Preferences),
	}
}

// Set replaces the record stored under prefs.ClientID.
func (s *MemoryStore) Set(prefs domain.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[prefs.ClientID] = prefs.Clone()
}

// Get retrieves a copy of the record for clientID.
func (s *MemoryStore) Get(clientID string) (domain.Preferences, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[clientID]
	if !ok {
		return domain.Preferences{}, false
	}
	return p.Clone(), true
}

// Len reports how many clients have stored preferences.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prefs)
}
