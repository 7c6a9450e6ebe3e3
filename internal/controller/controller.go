// Package controller translates user gestures into store operations and
// keeps track of which view (all tasks or a search result) is rendered.
// It has no UI dependencies so both the terminal UI and the CLI drive it.
package controller

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

// Controller owns a store and the currently rendered rows.
type Controller struct {
	store   *store.Store
	log     *log.Logger
	keyword string
	rows    []model.Task
}

// New builds a controller showing the unfiltered view.
func New(s *store.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{store: s, log: logger}
	c.refresh()
	return c
}

// Store exposes the underlying store.
func (c *Controller) Store() *store.Store { return c.store }

// Rows returns the rendered rows in display order.
func (c *Controller) Rows() []model.Task { return c.rows }

// RowAt resolves a rendered position to its task.
func (c *Controller) RowAt(i int) (model.Task, bool) {
	if i < 0 || i >= len(c.rows) {
		return model.Task{}, false
	}
	return c.rows[i], true
}

// Filter returns the active search keyword, if any.
func (c *Controller) Filter() (string, bool) {
	return c.keyword, c.keyword != ""
}

// Stats counts over the whole store, not just the rendered rows.
func (c *Controller) Stats() (done, pending, total int) {
	done, pending = c.store.Stats()
	return done, pending, done + pending
}

// Add creates a task from user input.
func (c *Controller) Add(title string) *Notice {
	if _, err := c.store.Add(title); err != nil {
		return c.notice(err, "")
	}
	c.refresh()
	return nil
}

// Delete removes the selected task. uuid.Nil means nothing is selected.
func (c *Controller) Delete(id uuid.UUID) *Notice {
	if id == uuid.Nil {
		return noSelection("Select a task to delete.")
	}
	if err := c.store.Delete(id); err != nil {
		return c.notice(err, "Select a task to delete.")
	}
	c.refresh()
	return nil
}

// MarkDone marks the selected task done.
func (c *Controller) MarkDone(id uuid.UUID) *Notice {
	if id == uuid.Nil {
		return noSelection("Select a task to mark done.")
	}
	if err := c.store.MarkDone(id); err != nil {
		return c.notice(err, "Select a task to mark done.")
	}
	c.refresh()
	return nil
}

// ToggleDone flips the selected task. Without a selection it does nothing.
func (c *Controller) ToggleDone(id uuid.UUID) *Notice {
	if id == uuid.Nil {
		return nil
	}
	if err := c.store.ToggleDone(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return c.notice(err, "")
	}
	c.refresh()
	return nil
}

// Search switches to the filtered view for keyword.
func (c *Controller) Search(keyword string) *Notice {
	rows, err := c.store.Search(keyword)
	if err != nil {
		return c.notice(err, "")
	}
	c.keyword = strings.TrimSpace(keyword)
	c.rows = rows
	c.log.Debug("search", "keyword", keyword, "matches", len(rows))
	return nil
}

// ShowAll drops any filter and renders every task in display order.
func (c *Controller) ShowAll() {
	c.keyword = ""
	c.refresh()
}

// refresh recomputes the rendered rows, keeping an active filter.
func (c *Controller) refresh() {
	if c.keyword != "" {
		if rows, err := c.store.Search(c.keyword); err == nil {
			c.rows = rows
			return
		}
		c.keyword = ""
	}
	c.rows = c.store.Display()
}

func (c *Controller) notice(err error, selectMsg string) *Notice {
	n := Classify(err)
	if n.Level == LevelInfo && selectMsg != "" && errors.Is(err, store.ErrNotFound) {
		n.Message = selectMsg
	}
	switch n.Level {
	case LevelError:
		c.log.Error(n.Message, "err", err)
	default:
		c.log.Info("rejected", "reason", err)
	}
	return n
}

// LoadNotice turns a store.Open error into the notice shown at startup.
// It returns nil for errors other than a malformed file.
func LoadNotice(err error) *Notice {
	if err == nil || !errors.Is(err, jsonstore.ErrMalformed) {
		return nil
	}
	return Classify(err)
}
