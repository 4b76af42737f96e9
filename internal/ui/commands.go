package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/taskdeck/internal/state"
	"github.com/five82/taskdeck/internal/syncengine"
	"github.com/five82/taskdeck/internal/todos"
)

// Messages

type tickMsg time.Time

// storeChangedMsg signals that the store was mutated and the snapshot is stale.
type storeChangedMsg struct{}

// opDoneMsg reports the outcome of a refresh, toggle or delete.
type opDoneMsg struct {
	op  string
	err error
}

type taskAddedMsg struct {
	task todos.Task
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the store reports a mutation. Remote calls and
// resyncs run on command goroutines, so this is how their effects reach the
// screen.
func waitForChange(ctx context.Context, store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	changes := store.Changes()
	return func() tea.Msg {
		select {
		case <-changes:
			return storeChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func loadCmd(ctx context.Context, engine *syncengine.Engine) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		return opDoneMsg{op: "refresh", err: engine.LoadTasks(ctx)}
	}
}

// pushToggleCmd sends a toggle whose local half already ran in Update.
func pushToggleCmd(ctx context.Context, engine *syncengine.Engine, id int64, next bool) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		return opDoneMsg{op: "toggle", err: engine.PushToggle(ctx, id, next)}
	}
}

// pushRemoveCmd sends a delete whose local half already ran in Update.
func pushRemoveCmd(ctx context.Context, engine *syncengine.Engine, id int64) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		return opDoneMsg{op: "delete", err: engine.PushRemove(ctx, id)}
	}
}

func addCmd(ctx context.Context, engine *syncengine.Engine, title string) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		task, err := engine.AddTask(ctx, title)
		return taskAddedMsg{task: task, err: err}
	}
}
