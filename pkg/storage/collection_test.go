// ABOUTME: Tests for the JSON document collection
// ABOUTME: Verifies round-trips, error tagging, and directory scans

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func setupTestCollection(t *testing.T) *Collection {
	coll, err := OpenCollection("test", t.TempDir(), "rec-")
	if err != nil {
		t.Fatalf("Failed to open collection: %v", err)
	}
	return coll
}

func TestWriteAndRead(t *testing.T) {
	coll := setupTestCollection(t)

	in := record{Name: "alpha", Score: 7}
	if err := coll.Write("a1", in); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	var out record
	if err := coll.Read("a1", &out); err != nil {
		t.Fatalf("Failed to read: %v", err)
	}

	if out != in {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
}

func TestWritePrettyPrints(t *testing.T) {
	coll := setupTestCollection(t)

	if err := coll.Write("a1", record{Name: "alpha"}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(coll.Dir(), "rec-a1.json"))
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	if !strings.Contains(string(data), "\n  ") {
		t.Errorf("Expected indented JSON, got %q", string(data))
	}
}

func TestReadMissingIsNotFound(t *testing.T) {
	coll := setupTestCollection(t)

	var out record
	err := coll.Read("nope", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReadCorruptIsTagged(t *testing.T) {
	coll := setupTestCollection(t)

	path := filepath.Join(coll.Dir(), "rec-bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to plant corrupt file: %v", err)
	}

	var out record
	err := coll.Read("bad", &out)
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("Expected ErrCorrupted, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Corrupt record must not report ErrNotFound")
	}
}

func TestDelete(t *testing.T) {
	coll := setupTestCollection(t)

	if err := coll.Write("a1", record{Name: "alpha"}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := coll.Delete("a1"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	var out record
	if err := coll.Read("a1", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := coll.Delete("a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestKeysFiltersForeignFiles(t *testing.T) {
	coll := setupTestCollection(t)

	for _, key := range []string{"b", "a", "c"} {
		if err := coll.Write(key, record{Name: key}); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}

	// Files that do not match the prefix/suffix must be ignored.
	if err := os.WriteFile(filepath.Join(coll.Dir(), "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to plant foreign file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(coll.Dir(), "rec-x.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to plant foreign file: %v", err)
	}

	keys, err := coll.Keys()
	if err != nil {
		t.Fatalf("Failed to list keys: %v", err)
	}

	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %d: %v", len(keys), keys)
	}
	for i, want := range []string{"a", "b", "c"} {
		if keys[i] != want {
			t.Errorf("Expected key %q at %d, got %q", want, i, keys[i])
		}
	}

	count, err := coll.Count()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	coll := setupTestCollection(t)

	if err := coll.Write("a1", record{Name: "alpha"}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	entries, err := os.ReadDir(coll.Dir())
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}
