package controller

import (
	"errors"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

// Level is the severity of a user-facing notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Notice is a message the user has to acknowledge. Operations that
// return one left the store unchanged.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

func (n *Notice) String() string {
	return n.Level.String() + ": " + n.Message
}

// Classify maps store and file errors onto notice levels.
func Classify(err error) *Notice {
	switch {
	case errors.Is(err, jsonstore.ErrMalformed):
		return &Notice{Level: LevelError, Message: "Failed to load tasks.", Err: err}
	case errors.Is(err, store.ErrEmptyTitle):
		return &Notice{Level: LevelWarning, Message: "Task cannot be empty.", Err: err}
	case errors.Is(err, store.ErrDuplicateTitle):
		return &Notice{Level: LevelWarning, Message: "Task already exists.", Err: err}
	case errors.Is(err, store.ErrEmptyKeyword):
		return &Notice{Level: LevelInfo, Message: "Enter a keyword to search.", Err: err}
	case errors.Is(err, store.ErrNotFound):
		return &Notice{Level: LevelInfo, Message: "Select a task.", Err: err}
	default:
		return &Notice{Level: LevelError, Message: "Failed to save tasks: " + err.Error(), Err: err}
	}
}

func noSelection(msg string) *Notice {
	return &Notice{Level: LevelInfo, Message: msg, Err: store.ErrNotFound}
}
