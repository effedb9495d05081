package store

import (
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "kv.db"))
	defer s.Close()

	if _, ok := s.Get("rowh:chart"); ok {
		t.Fatal("expected miss on fresh store")
	}

	s.Set("rowh:chart", "42")
	got, ok := s.Get("rowh:chart")
	if !ok || got != "42" {
		t.Fatalf("expected 42, got %q ok=%v", got, ok)
	}

	// overwrite
	s.Set("rowh:chart", "55")
	got, ok = s.Get("rowh:chart")
	if !ok || got != "55" {
		t.Fatalf("expected 55 after overwrite, got %q ok=%v", got, ok)
	}
}

func TestReopenSurvivesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	s := Open(path)
	s.Set("cols:main", "0.33,0.67")
	s.Close()

	s2 := Open(path)
	defer s2.Close()
	got, ok := s2.Get("cols:main")
	if !ok || got != "0.33,0.67" {
		t.Fatalf("expected persisted value after reopen, got %q ok=%v", got, ok)
	}
}

func TestNoopStoreNeverFails(t *testing.T) {
	// Unopenable path yields a no-op store; callers must see a miss,
	// never an error.
	s := Open("/dev/null/not-a-dir/kv.db")
	s.Set("k", "v")
	if _, ok := s.Get("k"); ok {
		t.Fatal("no-op store should always miss")
	}
	s.Close()

	var nilStore *Store
	nilStore.Set("k", "v")
	if _, ok := nilStore.Get("k"); ok {
		t.Fatal("nil store should always miss")
	}
}
