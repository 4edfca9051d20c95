// internal/store/store_test.go
package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/commentwatch/internal/types"
)

func testEvents(n int) []types.Event {
	now := time.Date(2025, 8, 21, 6, 0, 0, 0, time.UTC)
	events := make([]types.Event, n)
	for i := range events {
		events[i] = types.Event{
			Comment: types.Comment{
				ID:          types.CommentID(strings.Repeat("x", i+1)),
				Text:        "明日19時からイベント開催",
				Author:      "author",
				PublishedAt: now.Add(-time.Hour),
			},
			ExtractedAt: now,
		}
	}
	return events
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))

	events, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty store, got %d events", len(events))
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))

	if err := store.Save(testEvents(3)); err != nil {
		t.Fatal(err)
	}

	events, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].ID != "x" || events[2].ID != "xxx" {
		t.Errorf("expected order preserved, got %s ... %s", events[0].ID, events[2].ID)
	}
	if events[0].Text != "明日19時からイベント開催" {
		t.Errorf("unexpected text %q", events[0].Text)
	}
}

func TestFileStore_SaveCreatesDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "dir", "events.json"))
	if err := store.Save(testEvents(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatal(err)
	}
}

func TestFileStore_FileShape(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))
	if err := store.Save(testEvents(1)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	// Indented JSON array of flat objects, readable and diff-friendly.
	if !strings.HasPrefix(string(data), "[\n  {") {
		t.Errorf("expected indented array, got %q", string(data[:20]))
	}
	for _, key := range []string{`"comment_id"`, `"published_at"`, `"extracted_at"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("expected %s in file", key)
		}
	}
}

func TestFileStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path)
	events, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("expected corrupted store treated as empty, got %d events", len(events))
	}
}

func TestFileStore_Count(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))
	if err := store.Save(testEvents(4)); err != nil {
		t.Fatal(err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
}

func TestFileStore_Tail(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))
	if err := store.Save(testEvents(5)); err != nil {
		t.Fatal(err)
	}

	last2, err := store.Tail(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last2) != 2 {
		t.Fatalf("expected 2 events, got %d", len(last2))
	}
	if last2[0].ID != "xxxx" || last2[1].ID != "xxxxx" {
		t.Errorf("expected newest two in order, got %s, %s", last2[0].ID, last2[1].ID)
	}

	all, err := store.Tail(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("expected all 5 events, got %d", len(all))
	}
}

func TestFileStore_OverwriteReplacesList(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))
	if err := store.Save(testEvents(5)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(testEvents(2)); err != nil {
		t.Fatal(err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 after overwrite, got %d", n)
	}
}
