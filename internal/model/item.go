package model

import (
	"strings"

	"github.com/google/uuid"
)

// Task is the domain model for a todo entry.
// ID is an in-memory identity only; the file keeps title and done.
type Task struct {
	ID    uuid.UUID `json:"-"`
	Title string    `json:"title"`
	Done  bool      `json:"done"`
}

// NewTask returns a pending task with a fresh identity.
func NewTask(title string) Task {
	return Task{ID: uuid.New(), Title: title}
}

// SameTitle reports whether two titles collide under case-insensitive comparison.
func SameTitle(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Matches reports whether keyword is a case-insensitive substring of the title.
func (t Task) Matches(keyword string) bool {
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(keyword))
}
