package store

import (
	"sync"
	"testing"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

func TestMemoryStoreSetAndGet(t *testing.T) {
	s := NewMemoryStore()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Set(domain.Preferences{
		ClientID:             "client-1",
		Sports:               []string{"soccer"},
		Teams:                []string{"Arsenal"},
		NotificationsEnabled: true,
		UpdatedAt:            &at,
	})

	got, ok := s.Get("client-1")
	if !ok {
		t.Fatalf("expected to find preferences for client-1")
	}
	if len(got.Sports) != 1 || got.Sports[0] != "soccer" || !got.NotificationsEnabled {
		t.Fatalf("unexpected preferences %+v", got)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected updatedAt %v", got.UpdatedAt)
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get("missing"); ok {
		t.Fatalf("expected missing id to return false")
	}
}

func TestMemoryStoreSetOverwritesWholeRecord(t *testing.T) {
	s := NewMemoryStore()
	s.Set(domain.Preferences{ClientID: "c", Sports: []string{"soccer"}, Teams: []string{"Arsenal"}, NotificationsEnabled: true})
	s.Set(domain.Preferences{ClientID: "c", Sports: []string{"tennis"}})

	got, _ := s.Get("c")
	if len(got.Sports) != 1 || got.Sports[0] != "tennis" {
		t.Fatalf("expected latest sports, got %v", got.Sports)
	}
	if len(got.Teams) != 0 || got.NotificationsEnabled {
		t.Fatalf("expected no merge with previous record, got %+v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one record, got %d", s.Len())
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	in := domain.Preferences{ClientID: "c", Sports: []string{"soccer"}}
	s.Set(in)
	in.Sports[0] = "mutated-input"

	out, _ := s.Get("c")
	out.Sports[0] = "mutated-output"

	again, _ := s.Get("c")
	if again.Sports[0] != "soccer" {
		t.Fatalf("expected stored record isolated from callers, got %v", again.Sports)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(domain.Preferences{ClientID: "shared", Sports: []string{"soccer"}})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get("shared")
		}()
	}
	wg.Wait()
	if _, ok := s.Get("shared"); !ok {
		t.Fatal("expected record after concurrent writes")
	}
}
