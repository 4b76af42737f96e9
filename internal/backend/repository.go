package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/taskdeck/internal/todos"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("todo not found")

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

func (p Patch) apply(t *todos.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
}

// Repository stores todos for the reference server.
type Repository interface {
	List(ctx context.Context) ([]todos.Task, error)
	Get(ctx context.Context, id int64) (todos.Task, error)
	Create(ctx context.Context, task todos.NewTask) (todos.Task, error)
	Update(ctx context.Context, id int64, patch Patch) (todos.Task, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// MemoryRepository keeps todos in process memory, ordered by id.
type MemoryRepository struct {
	mu     sync.Mutex
	tasks  []todos.Task
	nextID int64
}

// NewMemoryRepository returns an empty repository whose first id is 1.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (m *MemoryRepository) List(ctx context.Context) ([]todos.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]todos.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id int64) (todos.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		return m.tasks[i], nil
	}
	return todos.Task{}, ErrNotFound
}

func (m *MemoryRepository) Create(ctx context.Context, task todos.NewTask) (todos.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := todos.Task{
		ID:          m.nextID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
	}
	m.nextID++
	m.tasks = append(m.tasks, created)
	return created, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id int64, patch Patch) (todos.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return todos.Task{}, ErrNotFound
	}
	patch.apply(&m.tasks[i])
	return m.tasks[i], nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

func (m *MemoryRepository) Close() error { return nil }

func (m *MemoryRepository) index(id int64) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
