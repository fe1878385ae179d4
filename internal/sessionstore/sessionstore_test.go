package sessionstore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginRecordEnd(t *testing.T) {
	s := openTestStore(t)

	sess, err := s.Begin("run-1", "default")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if sess.StartedAt.IsZero() {
		t.Fatal("expected StartedAt to be populated")
	}

	if err := s.RecordFrame("run-1", 2); err != nil {
		t.Fatalf("record frame: %v", err)
	}
	if err := s.RecordFrame("run-1", 0); err != nil {
		t.Fatalf("record frame: %v", err)
	}

	got, err := s.Get("run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FramesObserved != 2 {
		t.Fatalf("expected 2 frames observed, got %d", got.FramesObserved)
	}
	if got.HandsAllocated != 2 {
		t.Fatalf("expected 2 hands allocated, got %d", got.HandsAllocated)
	}
	if got.EndedAt.Valid {
		t.Fatal("expected session to still be open")
	}

	if err := s.End("run-1"); err != nil {
		t.Fatalf("end: %v", err)
	}
	got, err = s.Get("run-1")
	if err != nil {
		t.Fatalf("get after end: %v", err)
	}
	if !got.EndedAt.Valid {
		t.Fatal("expected session to be marked ended")
	}
}

func TestRecordFrameUnknownSessionReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)
	if err := s.RecordFrame("missing", 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Begin("a", "default"); err != nil {
		t.Fatalf("begin a: %v", err)
	}
	if _, err := s.Begin("b", "default"); err != nil {
		t.Fatalf("begin b: %v", err)
	}

	sessions, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "b" || sessions[1].ID != "a" {
		t.Fatalf("expected newest first [b a], got [%s %s]", sessions[0].ID, sessions[1].ID)
	}
}
