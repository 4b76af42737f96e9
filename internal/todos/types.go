package todos

import (
	"fmt"
	"strings"
)

// Task mirrors a todo record as returned by the backend.
type Task struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	IsCompleted bool   `json:"is_completed" yaml:"is_completed"`
}

// NewTask is the payload for POST /todos/.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
}

type completionPatch struct {
	IsCompleted bool `json:"is_completed"`
}

// wireTask is a Task as decoded off the wire. Pointer fields tell a missing
// key apart from a zero value.
type wireTask struct {
	ID          *int64  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

// task converts w after checking that every field was present, then
// validates the result.
func (w wireTask) task() (Task, error) {
	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.Title == nil {
		missing = append(missing, "title")
	}
	if w.Description == nil {
		missing = append(missing, "description")
	}
	if w.IsCompleted == nil {
		missing = append(missing, "is_completed")
	}
	if len(missing) > 0 {
		return Task{}, fmt.Errorf("task is missing %s", strings.Join(missing, ", "))
	}
	t := Task{ID: *w.ID, Title: *w.Title, Description: *w.Description, IsCompleted: *w.IsCompleted}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Validate checks the fields the backend is required to fill in.
func (t Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("task id %d is not positive", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task %d has an empty title", t.ID)
	}
	return nil
}

// decodeList converts and validates a decoded list, rejecting duplicate ids.
func decodeList(records []wireTask) ([]Task, error) {
	tasks := make([]Task, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for i, rec := range records {
		task, err := rec.task()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[task.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate task id %d", i, task.ID)
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
