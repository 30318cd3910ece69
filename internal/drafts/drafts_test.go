package drafts

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	saved, err := s.Put(Draft{ID: "a", Title: "T", Markdown: "# T"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !saved.SavedAt.Equal(fixed) {
		t.Errorf("SavedAt = %v, want %v", saved.SavedAt, fixed)
	}

	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Markdown != "# T" || got.Title != "T" || !got.SavedAt.Equal(fixed) {
		t.Errorf("Get() = %+v", got)
	}
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	if _, err := s.Get("missing"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("Get(missing) error = %v, want ErrNoDraft", err)
	}
	if _, err := s.Get(""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Get(\"\") error = %v, want ErrInvalidID", err)
	}
	if _, err := s.Put(Draft{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Put(no id) error = %v, want ErrInvalidID", err)
	}
	if err := s.Delete(""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Delete(\"\") error = %v, want ErrInvalidID", err)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.Put(Draft{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("Get() after Delete error = %v, want ErrNoDraft", err)
	}
	if err := s.Delete("a"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}[id]
		s.now = func() time.Time { return base.Add(offset) }
		if _, err := s.Put(Draft{ID: id, Markdown: string(rune('a' + i))}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var ids []string
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	if len(ids) != 3 || ids[0] != "new" || ids[1] != "mid" || ids[2] != "old" {
		t.Errorf("List() order = %v, want [new mid old]", ids)
	}
}

func TestOpen_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "drafts.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(Draft{ID: "kept", Markdown: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()
	if d, err := s.Get("kept"); err != nil || d.Markdown != "x" {
		t.Errorf("Get() after reopen = %+v, %v", d, err)
	}
}

func TestOpen_BadPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "drafts.db")); err == nil {
		t.Error("Open() in a missing directory should fail")
	}
}
