package notifier

import (
	"context"
	"sync"
	"time"
)

// DefaultRetention is how long a notified id is kept after its match started.
const DefaultRetention = 7 * 24 * time.Hour

// Ledger persists notified match ids with their start times.
type Ledger interface {
	Notified(ctx context.Context) (map[string]time.Time, error)
	MarkNotified(ctx context.Context, id string, start time.Time) error
	PruneNotified(ctx context.Context, before time.Time) (int, error)
}

// NotifiedSet tracks match ids that were already surfaced to the user.
type NotifiedSet struct {
	mu     sync.RWMutex
	ids    map[string]time.Time
	ledger Ledger
}

// NewNotifiedSet returns an empty set backed by ledger. A nil ledger keeps ids in memory only.
func NewNotifiedSet(ledger Ledger) *NotifiedSet {
	return &NotifiedSet{ids: make(map[string]time.Time), ledger: ledger}
}

// Load replaces the in-memory ids with the persisted ones.
func (s *NotifiedSet) Load(ctx context.Context) error {
	if s.ledger == nil {
		return nil
	}
	ids, err := s.ledger.Notified(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]time.Time, len(ids))
	for id, start := range ids {
		s.ids[id] = start
	}
	return nil
}

// Has reports whether id was already notified.
func (s *NotifiedSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Add records id and persists it before returning. The id stays in memory even when
// persistence fails so the current process does not repeat the notification.
func (s *NotifiedSet) Add(ctx context.Context, id string, start time.Time) error {
	s.mu.Lock()
	s.ids[id] = start
	s.mu.Unlock()

	if s.ledger == nil {
		return nil
	}
	return s.ledger.MarkNotified(ctx, id, start)
}

// Prune drops ids whose match started before now-retention and returns how many were removed.
func (s *NotifiedSet) Prune(ctx context.Context, now time.Time, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := now.Add(-retention)

	s.mu.Lock()
	removed := 0
	for id, start := range s.ids {
		if start.Before(cutoff) {
			delete(s.ids, id)
			removed++
		}
	}
	s.mu.Unlock()

	if s.ledger == nil {
		return removed, nil
	}
	if _, err := s.ledger.PruneNotified(ctx, cutoff); err != nil {
		return removed, err
	}
	return removed, nil
}

// Len returns how many ids are tracked.
func (s *NotifiedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
