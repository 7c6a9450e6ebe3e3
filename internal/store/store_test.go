package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), jsonstore.DefaultFileName), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, title string) model.Task {
	t.Helper()
	task, err := s.Add(title)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", title, err)
	}
	return task
}

func reopen(t *testing.T, s *Store) *Store {
	t.Helper()
	r, err := Open(s.Path(), nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	return r
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddPersists(t *testing.T) {
	s := newStore(t)
	task := mustAdd(t, s, "  Buy milk  ")
	if task.Title != "Buy milk" || task.Done {
		t.Fatalf("got %+v", task)
	}
	if task.ID == uuid.Nil {
		t.Fatal("task has no id")
	}

	r := reopen(t, s)
	got := r.Tasks()
	if len(got) != 1 || got[0].Title != "Buy milk" || got[0].Done {
		t.Fatalf("after reload: %+v", got)
	}
}

func TestAddRejects(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  error
	}{
		{name: "empty", title: "", want: ErrEmptyTitle},
		{name: "blank", title: "   ", want: ErrEmptyTitle},
		{name: "duplicate other case", title: "buy MILK", want: ErrDuplicateTitle},
		{name: "duplicate padded", title: " Buy milk ", want: ErrDuplicateTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			mustAdd(t, s, "Buy milk")
			before, _ := os.ReadFile(s.Path())

			_, err := s.Add(tt.title)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if s.Len() != 1 {
				t.Errorf("Len: got %d, want 1", s.Len())
			}
			after, _ := os.ReadFile(s.Path())
			if !bytes.Equal(before, after) {
				t.Error("file changed on rejected add")
			}
		})
	}
}

func TestAddEmptyDoesNotCreateFile(t *testing.T) {
	s := newStore(t)
	if _, err := s.Add(" "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("got %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	a := mustAdd(t, s, "A")
	b := mustAdd(t, s, "B")
	c := mustAdd(t, s, "C")

	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := titles(reopen(t, s).Tasks()); !equalStrings(got, []string{"A", "C"}) {
		t.Errorf("got %v", got)
	}
	if _, ok := s.Get(a.ID); !ok {
		t.Error("A disappeared")
	}
	if _, ok := s.Get(c.ID); !ok {
		t.Error("C disappeared")
	}
}

func TestDeleteUnknownLeavesFileUntouched(t *testing.T) {
	s := newStore(t)
	mustAdd(t, s, "A")
	before, _ := os.ReadFile(s.Path())

	for _, id := range []uuid.UUID{uuid.Nil, uuid.New()} {
		if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete(%s): got %v, want ErrNotFound", id, err)
		}
	}
	after, _ := os.ReadFile(s.Path())
	if !bytes.Equal(before, after) {
		t.Error("file changed")
	}
}

func TestMarkDoneIsIdempotent(t *testing.T) {
	s := newStore(t)
	a := mustAdd(t, s, "A")
	for i := 0; i < 2; i++ {
		if err := s.MarkDone(a.ID); err != nil {
			t.Fatalf("MarkDone failed: %v", err)
		}
		got, _ := s.Get(a.ID)
		if !got.Done {
			t.Fatalf("pass %d: task not done", i)
		}
	}
	if got := reopen(t, s).Tasks(); !got[0].Done {
		t.Error("done flag not persisted")
	}
}

func TestToggleDone(t *testing.T) {
	s := newStore(t)
	a := mustAdd(t, s, "A")
	if err := s.ToggleDone(a.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(a.ID); !got.Done {
		t.Fatal("first toggle should mark done")
	}
	if err := s.ToggleDone(a.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(a.ID); got.Done {
		t.Fatal("second toggle should restore pending")
	}
	if err := s.ToggleDone(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s := newStore(t)
	mustAdd(t, s, "Buy milk")
	rent := mustAdd(t, s, "Pay rent")
	if err := s.MarkDone(rent.ID); err != nil {
		t.Fatal(err)
	}
	before := s.Tasks()

	got, err := s.Search("MILK")
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(titles(got), []string{"Buy milk"}) {
		t.Errorf("Search(MILK): got %v", titles(got))
	}

	got, err = s.Search("xyz")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Search(xyz): got %v, want empty", got)
	}

	if _, err := s.Search("  "); !errors.Is(err, ErrEmptyKeyword) {
		t.Errorf("blank keyword: got %v", err)
	}
	if !equalStrings(titles(s.Tasks()), titles(before)) {
		t.Error("search changed the store")
	}
}

func TestDisplayOrder(t *testing.T) {
	s := newStore(t)
	a := mustAdd(t, s, "A")
	mustAdd(t, s, "B")
	c := mustAdd(t, s, "C")
	for _, id := range []uuid.UUID{a.ID, c.ID} {
		if err := s.MarkDone(id); err != nil {
			t.Fatal(err)
		}
	}

	if got := titles(s.Display()); !equalStrings(got, []string{"B", "A", "C"}) {
		t.Errorf("Display: got %v, want [B A C]", got)
	}
	if got := titles(s.Tasks()); !equalStrings(got, []string{"A", "B", "C"}) {
		t.Errorf("canonical order changed: %v", got)
	}
}

func TestOpenMalformedStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), jsonstore.DefaultFileName)
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, nil)
	if !errors.Is(err, jsonstore.ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
	if s == nil || s.Len() != 0 {
		t.Fatalf("want empty usable store, got %v", s)
	}

	// first write replaces the broken file
	mustAdd(t, s, "A")
	if got := titles(reopen(t, s).Tasks()); !equalStrings(got, []string{"A"}) {
		t.Errorf("got %v", got)
	}
}

func TestOpenUnreadableReturnsNil(t *testing.T) {
	// a directory where the file should be cannot be read as a file
	path := t.TempDir()
	s, err := Open(path, nil)
	if err == nil || s != nil {
		t.Fatalf("got store=%v err=%v, want nil store and an error", s, err)
	}
}

func TestWriteFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", jsonstore.DefaultFileName)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := mustAdd(t, s, "A")

	// remove the directory so every further write fails
	if err := os.RemoveAll(filepath.Join(dir, "sub")); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Add("B"); err == nil {
		t.Fatal("Add should fail")
	}
	if err := s.ToggleDone(a.ID); err == nil {
		t.Fatal("ToggleDone should fail")
	}
	if err := s.Delete(a.ID); err == nil {
		t.Fatal("Delete should fail")
	}
	got := s.Tasks()
	if len(got) != 1 || got[0].Title != "A" || got[0].Done {
		t.Errorf("memory diverged from last good write: %+v", got)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s := newStore(t)
	mustAdd(t, s, "A")
	got := s.Tasks()
	got[0].Title = "changed"
	if s.Tasks()[0].Title != "A" {
		t.Error("caller mutated the store")
	}
}

func TestStats(t *testing.T) {
	s := newStore(t)
	a := mustAdd(t, s, "A")
	mustAdd(t, s, "B")
	_ = s.MarkDone(a.ID)
	done, pending := s.Stats()
	if done != 1 || pending != 1 {
		t.Errorf("got done=%d pending=%d", done, pending)
	}
}
