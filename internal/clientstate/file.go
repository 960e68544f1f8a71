package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

type fileDocument struct {
	ClientID    string               `json:"esh_client_id,omitempty"`
	Preferences *domain.Preferences  `json:"esh_preferences,omitempty"`
	Notified    map[string]time.Time `json:"esh_notified_matches"`
}

// FileStore keeps the whole state in one JSON document, rewritten atomically on each change.
type FileStore struct {
	path string

	mu  sync.Mutex
	doc fileDocument
}

// OpenFile loads path if it exists; a missing file starts empty.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("state path is required")
	}
	s := &FileStore{path: path, doc: fileDocument{Notified: map[string]time.Time{}}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", path, err)
	}
	if s.doc.Notified == nil {
		s.doc.Notified = map[string]time.Time{}
	}
	return s, nil
}

func (s *FileStore) ClientID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ClientID, nil
}

func (s *FileStore) SetClientID(ctx context.Context, id string) error {
	return s.update(ctx, func(doc *fileDocument) { doc.ClientID = id })
}

func (s *FileStore) Preferences(ctx context.Context) (domain.Preferences, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Preferences == nil {
		return domain.Preferences{}, false, nil
	}
	return s.doc.Preferences.Clone(), true, nil
}

func (s *FileStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	p := prefs.Clone()
	return s.update(ctx, func(doc *fileDocument) { doc.Preferences = &p })
}

func (s *FileStore) Notified(ctx context.Context) (map[string]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.doc.Notified))
	for id, start := range s.doc.Notified {
		out[id] = start
	}
	return out, nil
}

func (s *FileStore) MarkNotified(ctx context.Context, id string, start time.Time) error {
	return s.update(ctx, func(doc *fileDocument) { doc.Notified[id] = start.UTC() })
}

func (s *FileStore) PruneNotified(ctx context.Context, before time.Time) (int, error) {
	removed := 0
	err := s.update(ctx, func(doc *fileDocument) {
		for id, start := range doc.Notified {
			if start.Before(before) {
				delete(doc.Notified, id)
				removed++
			}
		}
	})
	return removed, err
}

// Close is a no-op; every change is already on disk.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) update(ctx context.Context, mutate func(*fileDocument)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.doc)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
