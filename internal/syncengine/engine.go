package syncengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/taskdeck/internal/state"
	"github.com/five82/taskdeck/internal/todos"
)

const (
	// LoadFailedMessage is recorded in the store when a refresh fails.
	LoadFailedMessage = "Failed to load tasks. Is the backend running?"
	// AddFailedMessage is the alert text for a rejected create.
	AddFailedMessage = "Error adding task"
	// DefaultDescription is sent with every created task unless overridden.
	DefaultDescription = "Created via Web UI"
)

// ErrEmptyTitle is returned by AddTask when the title is blank after
// trimming. Nothing is sent and the store is untouched.
var ErrEmptyTitle = errors.New("task title is empty")

// AlertError carries a message meant to be shown to the user immediately.
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AlertError) Unwrap() error { return e.Err }

// Engine applies user intents to the store and reconciles them with the
// backend. It is the store's only writer.
type Engine struct {
	svc         todos.Service
	store       *state.Store
	logger      *slog.Logger
	description string

	mu         sync.Mutex
	inflight   int
	lastSeq    uint64
	appliedSeq uint64
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaultDescription overrides the description sent on create.
func WithDefaultDescription(desc string) Option {
	return func(e *Engine) {
		if desc = strings.TrimSpace(desc); desc != "" {
			e.description = desc
		}
	}
}

// New builds an Engine over svc and store.
func New(svc todos.Service, store *state.Store, opts ...Option) *Engine {
	if store == nil {
		store = &state.Store{}
	}
	e := &Engine{
		svc:         svc,
		store:       store,
		logger:      slog.New(slog.DiscardHandler),
		description: DefaultDescription,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the underlying store for read access.
func (e *Engine) Store() *state.Store {
	return e.store
}

// Snapshot returns the current store contents.
func (e *Engine) Snapshot() state.Snapshot {
	return e.store.Snapshot()
}

// LoadTasks replaces the collection with the backend's list. On failure the
// collection is left alone and LoadFailedMessage is recorded; the returned
// error is informational. Loading is cleared once no refresh is in flight.
func (e *Engine) LoadTasks(ctx context.Context) error {
	seq := e.beginRefresh()
	defer e.endRefresh()

	tasks, err := e.svc.ListTasks(ctx)
	if err != nil {
		e.failRefresh(seq, err)
		return fmt.Errorf("load tasks: %w", err)
	}
	e.applyRefresh(seq, tasks)
	return nil
}

func (e *Engine) beginRefresh() uint64 {
	e.mu.Lock()
	e.inflight++
	e.lastSeq++
	seq := e.lastSeq
	e.mu.Unlock()

	e.store.SetLoading(true)
	e.store.ClearError()
	return seq
}

func (e *Engine) endRefresh() {
	e.mu.Lock()
	e.inflight--
	loading := e.inflight > 0
	e.mu.Unlock()

	e.store.SetLoading(loading)
}

// applyRefresh installs tasks unless a newer refresh already landed.
func (e *Engine) applyRefresh(seq uint64, tasks []todos.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if seq < e.appliedSeq {
		e.logger.Debug("discarding stale refresh", "seq", seq, "applied", e.appliedSeq)
		return
	}
	e.appliedSeq = seq
	e.store.ReplaceAll(tasks)
	e.store.ClearError()
	e.logger.Debug("tasks refreshed", "seq", seq, "count", len(tasks))
}

func (e *Engine) failRefresh(seq uint64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Warn("refresh failed", "seq", seq, "error", err)
	if seq < e.appliedSeq {
		return
	}
	e.store.SetError(LoadFailedMessage, err)
}

// AddTask creates a task and appends it once the backend confirms it. A blank
// title returns ErrEmptyTitle without any network call. A rejected create
// returns an *AlertError and leaves the store unchanged.
func (e *Engine) AddTask(ctx context.Context, title string) (todos.Task, error) {
	if strings.TrimSpace(title) == "" {
		return todos.Task{}, ErrEmptyTitle
	}

	created, err := e.svc.CreateTask(ctx, todos.NewTask{
		Title:       title,
		Description: e.description,
		IsCompleted: false,
	})
	if err != nil {
		e.logger.Warn("create failed", "title", title, "error", err)
		return todos.Task{}, &AlertError{Message: AddFailedMessage, Err: err}
	}

	e.store.Insert(created)
	e.logger.Info("task created", "id", created.ID)
	return created, nil
}

// ToggleCompletion flips the task's completion flag locally, then asks the
// backend to do the same. If the backend refuses, the whole collection is
// resynchronized and the remote error is returned.
func (e *Engine) ToggleCompletion(ctx context.Context, id int64, currentStatus bool) error {
	return e.PushToggle(ctx, id, e.ApplyToggle(id, currentStatus))
}

// ApplyToggle performs the local half of ToggleCompletion and returns the
// status to send. Callers that run PushToggle asynchronously call this first
// so that a second toggle reads the flipped value.
func (e *Engine) ApplyToggle(id int64, currentStatus bool) bool {
	next := !currentStatus
	if err := e.store.SetCompletion(id, next); err != nil {
		e.logger.Warn("toggle applied to unknown task", "id", id, "error", err)
	}
	return next
}

// PushToggle sends a completion status already applied by ApplyToggle and
// resynchronizes if the backend refuses it.
func (e *Engine) PushToggle(ctx context.Context, id int64, next bool) error {
	if err := e.svc.UpdateTaskCompletion(ctx, id, next); err != nil {
		e.logger.Warn("toggle rejected, resyncing", "id", id, "completed", next, "error", err)
		e.resync(ctx)
		return fmt.Errorf("toggle task %d: %w", id, err)
	}
	e.logger.Debug("toggle confirmed", "id", id, "completed", next)
	return nil
}

// RemoveTask drops the task locally, then deletes it remotely. If the
// backend refuses, the whole collection is resynchronized and the remote
// error is returned.
func (e *Engine) RemoveTask(ctx context.Context, id int64) error {
	e.ApplyRemove(id)
	return e.PushRemove(ctx, id)
}

// ApplyRemove performs the local half of RemoveTask.
func (e *Engine) ApplyRemove(id int64) {
	if err := e.store.Remove(id); err != nil {
		e.logger.Warn("delete applied to unknown task", "id", id, "error", err)
	}
}

// PushRemove deletes id remotely and resynchronizes if the backend refuses.
func (e *Engine) PushRemove(ctx context.Context, id int64) error {
	if err := e.svc.DeleteTask(ctx, id); err != nil {
		e.logger.Warn("delete rejected, resyncing", "id", id, "error", err)
		e.resync(ctx)
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	e.logger.Debug("delete confirmed", "id", id)
	return nil
}

// resync runs a refresh that outlives cancellation of the operation that
// triggered it. Its failure is recorded in the store by LoadTasks.
func (e *Engine) resync(ctx context.Context) {
	_ = e.LoadTasks(context.WithoutCancel(ctx))
}
