// Package storage tests covering the backend contract for every
// implementation.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// backendContract exercises the Get/Set/Remove contract shared by all
// backends.
func backendContract(t *testing.T, b Backend) {
	t.Helper()

	// Absent key: ok=false, no error.
	value, ok, err := b.Get(KeyPrompts)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || value != nil {
		t.Errorf("Expected absent key, got ok=%v value=%q", ok, value)
	}

	// Round trip.
	if err := b.Set(KeyPrompts, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err = b.Get(KeyPrompts)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || string(value) != `[{"id":"a"}]` {
		t.Errorf("Expected stored value back, got ok=%v value=%q", ok, value)
	}

	// Overwrite.
	if err := b.Set(KeyPrompts, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _, _ = b.Get(KeyPrompts)
	if string(value) != `[]` {
		t.Errorf("Expected overwritten value, got %q", value)
	}

	// Remove, then remove again (idempotent).
	if err := b.Remove(KeyPrompts); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	_, ok, _ = b.Get(KeyPrompts)
	if ok {
		t.Error("Expected key to be gone after Remove")
	}
	if err := b.Remove(KeyPrompts); err != nil {
		t.Errorf("Expected Remove of absent key to succeed, got %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	backendContract(t, NewMemory())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	m := NewMemory()
	original := []byte("abc")
	m.Set(KeySettings, original)
	original[0] = 'x'

	value, _, _ := m.Get(KeySettings)
	if string(value) != "abc" {
		t.Errorf("Expected stored copy to be isolated, got %q", value)
	}
}

func TestFileBackend(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	backendContract(t, f)
}

func TestFileBackendWritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	if err := f.Set(KeyPrompts, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "prompts.json"))
	if err != nil {
		t.Fatalf("Expected prompts.json on disk: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("Expected raw blob in file, got %q", data)
	}

	// No temp file left behind.
	if _, err := os.Stat(filepath.Join(dir, "prompts.json.tmp")); !os.IsNotExist(err) {
		t.Error("Expected temp file to be renamed away")
	}
}

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return NewSQLiteFromDB(db)
}

func TestSQLiteBackend(t *testing.T) {
	backendContract(t, setupSQLite(t))
}

func TestOpenSQLiteCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSQLite(dir)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()

	backendContract(t, s)

	if _, err := os.Stat(filepath.Join(dir, "promptvault.db")); err != nil {
		t.Errorf("Expected database file on disk: %v", err)
	}
}

func TestKnownKeys(t *testing.T) {
	for _, key := range Keys() {
		if !knownKey(key) {
			t.Errorf("Expected %q to be known", key)
		}
	}
	if knownKey("random") {
		t.Error("Expected random key to be unknown")
	}
}
