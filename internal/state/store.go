package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/taskdeck/internal/todos"
)

// ErrNotFound is returned when a mutation targets an id the store does not hold.
var ErrNotFound = errors.New("task not found")

// Snapshot represents the latest data available to the presentation layer.
type Snapshot struct {
	Tasks       []todos.Task
	Loading     bool
	LastError   string // user-facing message; empty when there is none
	LastCause   error  // underlying failure behind LastError
	LastUpdated time.Time // any change to the collection
	LastSynced  time.Time // last time the collection was replaced from the backend
}

// HasError reports whether a user-facing error is set.
func (s Snapshot) HasError() bool {
	return s.LastError != ""
}

// Task returns the task with the given id.
func (s Snapshot) Task(id int64) (todos.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return todos.Task{}, false
}

// Store holds the ordered task collection plus the transient loading and
// error flags. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	changesOnce sync.Once
	changes     chan struct{}
}

// ReplaceAll discards the current collection and installs tasks in order.
func (s *Store) ReplaceAll(tasks []todos.Task) {
	s.mu.Lock()
	now := time.Now()
	s.snapshot.Tasks = cloneTasks(tasks)
	s.snapshot.LastUpdated = now
	s.snapshot.LastSynced = now
	s.mu.Unlock()
	s.notify()
}

// Insert appends task. A task whose id is already present replaces the
// existing entry in place so ids stay unique.
func (s *Store) Insert(task todos.Task) {
	s.mu.Lock()
	if i := s.indexLocked(task.ID); i >= 0 {
		s.snapshot.Tasks[i] = task
	} else {
		s.snapshot.Tasks = append(s.snapshot.Tasks, task)
	}
	s.snapshot.LastUpdated = time.Now()
	s.mu.Unlock()
	s.notify()
}

// SetCompletion updates the completion flag of the task with the given id.
func (s *Store) SetCompletion(id int64, completed bool) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("set completion of task %d: %w", id, ErrNotFound)
	}
	s.snapshot.Tasks[i].IsCompleted = completed
	s.snapshot.LastUpdated = time.Now()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Remove deletes the task with the given id, preserving the order of the rest.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove task %d: %w", id, ErrNotFound)
	}
	s.snapshot.Tasks = append(s.snapshot.Tasks[:i], s.snapshot.Tasks[i+1:]...)
	s.snapshot.LastUpdated = time.Now()
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetLoading toggles the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	changed := s.snapshot.Loading != loading
	s.snapshot.Loading = loading
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// SetError records a user-facing error message and its cause. An empty
// message clears the error.
func (s *Store) SetError(message string, cause error) {
	s.mu.Lock()
	if message == "" {
		cause = nil
	}
	s.snapshot.LastError = message
	s.snapshot.LastCause = cause
	s.mu.Unlock()
	s.notify()
}

// ClearError removes any recorded error.
func (s *Store) ClearError() {
	s.mu.Lock()
	had := s.snapshot.LastError != ""
	s.snapshot.LastError = ""
	s.snapshot.LastCause = nil
	s.mu.Unlock()
	if had {
		s.notify()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Tasks = cloneTasks(s.snapshot.Tasks)
	return snap
}

// Changes returns a channel that receives a value after state changes.
// Bursts of changes coalesce into a single notification.
func (s *Store) Changes() <-chan struct{} {
	s.changesOnce.Do(s.initChanges)
	return s.changes
}

func (s *Store) initChanges() {
	s.changes = make(chan struct{}, 1)
}

func (s *Store) notify() {
	s.changesOnce.Do(s.initChanges)
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *Store) indexLocked(id int64) int {
	for i, t := range s.snapshot.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []todos.Task) []todos.Task {
	if len(tasks) == 0 {
		return nil
	}
	dup := make([]todos.Task, len(tasks))
	copy(dup, tasks)
	return dup
}
