// Package store owns the in-memory task list and mirrors it to a JSON file
// after every mutation.
package store

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

var (
	ErrEmptyTitle     = errors.New("task title cannot be empty")
	ErrDuplicateTitle = errors.New("task already exists")
	ErrNotFound       = errors.New("no such task")
	ErrEmptyKeyword   = errors.New("search keyword cannot be empty")
)

// Store is the authoritative ordered task list. Insertion order is the
// canonical order and is what gets written to disk.
type Store struct {
	path  string
	tasks []model.Task
	log   *log.Logger
}

// Open loads the store from path. When the file is malformed the returned
// store is empty and usable, and the error wraps jsonstore.ErrMalformed.
// Any other read failure returns a nil store.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{path: path, log: logger}

	tasks, err := jsonstore.Load(path)
	if err != nil {
		if errors.Is(err, jsonstore.ErrMalformed) {
			logger.Warn("task file unreadable, starting empty", "path", path, "err", err)
			s.tasks = []model.Task{}
			return s, err
		}
		return nil, err
	}
	s.tasks = tasks
	logger.Debug("tasks loaded", "path", path, "count", len(tasks))
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Tasks returns a copy of the canonical sequence.
func (s *Store) Tasks() []model.Task {
	return slices.Clone(s.tasks)
}

// Get looks a task up by identity.
func (s *Store) Get(id uuid.UUID) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Add appends a pending task. The title is trimmed; empty titles and
// case-insensitive duplicates are rejected without touching the store.
func (s *Store) Add(title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	for _, t := range s.tasks {
		if model.SameTitle(t.Title, title) {
			return model.Task{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, t.Title)
		}
	}

	task := model.NewTask(title)
	prev := s.tasks
	s.tasks = append(slices.Clone(s.tasks), task)
	if err := s.persist(prev); err != nil {
		return model.Task{}, err
	}
	s.log.Debug("task added", "title", title)
	return task, nil
}

// Delete removes the task with the given id.
func (s *Store) Delete(id uuid.UUID) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	removed := s.tasks[i]
	prev := s.tasks
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.persist(prev); err != nil {
		return err
	}
	s.log.Debug("task removed", "title", removed.Title)
	return nil
}

// MarkDone sets done=true. Marking a done task again is harmless.
func (s *Store) MarkDone(id uuid.UUID) error {
	return s.update(id, func(t *model.Task) { t.Done = true })
}

// ToggleDone flips done for the task.
func (s *Store) ToggleDone(id uuid.UUID) error {
	return s.update(id, func(t *model.Task) { t.Done = !t.Done })
}

// Search returns the tasks whose title contains keyword, ignoring case,
// in canonical order. The store is not modified.
func (s *Store) Search(keyword string) ([]model.Task, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.Matches(keyword) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Display returns every task with pending ones first. The sort is stable,
// so canonical order holds within each group.
func (s *Store) Display() []model.Task {
	out := slices.Clone(s.tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		switch {
		case a.Done == b.Done:
			return 0
		case !a.Done:
			return -1
		default:
			return 1
		}
	})
	return out
}

// Stats counts done and pending tasks.
func (s *Store) Stats() (done, pending int) {
	for _, t := range s.tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s *Store) update(id uuid.UUID, fn func(*model.Task)) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.tasks
	s.tasks = slices.Clone(s.tasks)
	fn(&s.tasks[i])
	if err := s.persist(prev); err != nil {
		return err
	}
	s.log.Debug("task updated", "title", s.tasks[i].Title, "done", s.tasks[i].Done)
	return nil
}

// persist writes the current list. On failure the list is reset to prev
// so memory never runs ahead of the file.
func (s *Store) persist(prev []model.Task) error {
	if err := jsonstore.Save(s.path, s.tasks); err != nil {
		s.tasks = prev
		s.log.Error("save failed", "path", s.path, "err", err)
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}
