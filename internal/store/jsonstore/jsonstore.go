package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking and no atomic rename; one process owns the file.

// DefaultFileName is used when no data file is configured.
const DefaultFileName = "tasks.json"

// ErrMalformed marks a file that exists but is not a valid task list.
var ErrMalformed = errors.New("malformed task file")

const schemaURL = "tada://tasks.schema.json"

const schemaText = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "done"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "done": {"type": "boolean"}
    }
  }
}`

var schema = jsonschema.MustCompileString(schemaURL, schemaText)

// Load reads the task list at path. A missing file yields an empty list.
// Content that does not parse or fails the schema yields ErrMalformed.
func Load(path string) ([]model.Task, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, firstCause(err))
	}

	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i := range tasks {
		tasks[i].ID = uuid.New()
	}
	return tasks, nil
}

// Save replaces the file at path with the full task list.
func Save(path string, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// firstCause walks to the deepest schema error so the message names the
// offending location instead of the generic top-level failure.
func firstCause(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
