// internal/store/store.go
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/commentwatch/internal/types"
)

// FileStore is a JSON-file-backed store for extracted events. The file
// holds a single array ordered by extraction time, oldest first.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a file-backed store at the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path used by this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns all stored events. A missing file is an empty store. A
// file that no longer parses is logged and treated as empty so the next
// scan can rebuild it.
func (s *FileStore) Load() ([]types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}
	if events == nil {
		return []types.Event{}, nil
	}
	return events, nil
}

// Count returns the number of stored events.
func (s *FileStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

// Tail returns the last limit events, oldest first. A non-positive
// limit returns everything.
func (s *FileStore) Tail(limit int) ([]types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	if events == nil {
		return []types.Event{}, nil
	}
	return events, nil
}

// Save replaces the entire event list on disk.
func (s *FileStore) Save(events []types.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(events)
}

func (s *FileStore) load() ([]types.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var events []types.Event
	if err := json.Unmarshal(data, &events); err != nil {
		slog.Warn("events file is corrupted, starting from empty", "path", s.path, "error", err)
		return nil, nil
	}
	return events, nil
}

// save writes the event list to disk using atomic write (temp file + rename).
func (s *FileStore) save(events []types.Event) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create events dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp events file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp events file: %w", err)
	}
	return nil
}
