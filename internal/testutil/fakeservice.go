// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/five82/taskdeck/internal/todos"
)

// ErrRejected is a transport error with a 500 status, for error injection.
var ErrRejected = &todos.TransportError{
	Op:         "fake",
	Method:     http.MethodPost,
	Path:       "/todos/",
	StatusCode: http.StatusInternalServerError,
	Err:        fmt.Errorf("status %d", http.StatusInternalServerError),
}

// Call records one invocation of the fake.
type Call struct {
	Op          string
	ID          int64
	Title       string
	Description string
	IsCompleted bool
}

// FakeService is an in-memory implementation of todos.Service for testing.
// It behaves like the real backend: ids are assigned on create, and updates
// or deletes of unknown ids fail with a 404 transport error.
type FakeService struct {
	mu     sync.Mutex
	tasks  []todos.Task
	nextID int64
	calls  []Call

	// Error injection for testing. A non-nil error makes the call fail
	// without touching backend state.
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Hooks run at the start of the matching call, before any state change.
	// They may inspect the client-side store to observe optimistic state.
	BeforeList   func()
	BeforeCreate func(todos.NewTask)
	BeforeUpdate func(id int64, isCompleted bool)
	BeforeDelete func(id int64)
}

// NewFakeService creates a FakeService seeded with tasks. New ids start
// after the highest seeded id.
func NewFakeService(tasks ...todos.Task) *FakeService {
	f := &FakeService{nextID: 1}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t)
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

// SetNextID fixes the id the next create will assign.
func (f *FakeService) SetNextID(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = id
}

// Tasks returns a copy of the backend's current records.
func (f *FakeService) Tasks() []todos.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]todos.Task(nil), f.tasks...)
}

// Calls returns the recorded invocations in order.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times op was invoked.
func (f *FakeService) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// SetErrors updates the injected errors under the lock.
func (f *FakeService) SetErrors(list, create, update, remove error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListErr, f.CreateErr, f.UpdateErr, f.DeleteErr = list, create, update, remove
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// ListTasks implements todos.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]todos.Task, error) {
	f.record(Call{Op: "list"})
	if f.BeforeList != nil {
		f.BeforeList()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]todos.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements todos.Service.
func (f *FakeService) CreateTask(ctx context.Context, task todos.NewTask) (todos.Task, error) {
	f.record(Call{Op: "create", Title: task.Title, Description: task.Description, IsCompleted: task.IsCompleted})
	if f.BeforeCreate != nil {
		f.BeforeCreate(task)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return todos.Task{}, f.CreateErr
	}
	created := todos.Task{
		ID:          f.nextID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
	}
	f.nextID++
	f.tasks = append(f.tasks, created)
	return created, nil
}

// UpdateTaskCompletion implements todos.Service.
func (f *FakeService) UpdateTaskCompletion(ctx context.Context, id int64, isCompleted bool) error {
	f.record(Call{Op: "update", ID: id, IsCompleted: isCompleted})
	if f.BeforeUpdate != nil {
		f.BeforeUpdate(id, isCompleted)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsCompleted = isCompleted
			return nil
		}
	}
	return notFound(http.MethodPatch, id)
}

// DeleteTask implements todos.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.record(Call{Op: "delete", ID: id})
	if f.BeforeDelete != nil {
		f.BeforeDelete(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound(http.MethodDelete, id)
}

func notFound(method string, id int64) error {
	return &todos.TransportError{
		Op:         "fake",
		Method:     method,
		Path:       fmt.Sprintf("/todos/%d", id),
		StatusCode: http.StatusNotFound,
		Err:        fmt.Errorf("status %d", http.StatusNotFound),
	}
}
