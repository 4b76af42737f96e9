// Package ui provides the Bubble Tea terminal interface for taskdeck.
//
// # Architecture Overview
//
// The Model never mutates tasks itself. It reads state.Snapshot values from
// the store and forwards user intents to a syncengine.Engine. Toggle and
// delete apply their local half (ApplyToggle, ApplyRemove) inside Update, so
// the next key press already sees the change. The network half blocks, so it
// runs as a tea.Cmd on Bubble Tea's command goroutines, as do refreshes and
// creates. Their results reach the screen because the model waits on the
// store's change channel (waitForChange) and re-reads the snapshot whenever
// it fires. A periodic tick re-reads it as well.
//
// # Package Structure
//
//   - app.go: Model, key handling, Run
//   - commands.go: messages and the commands wrapping engine calls
//   - view.go: header, task list, add form, alert and status bar rendering
//   - help.go: help overlay built from the key map
//   - keys.go: key bindings (bubbles/key)
//   - theme.go: color themes and derived lipgloss styles
//
// # Keyboard Shortcuts
//
//	j/k, up/down   move selection
//	g/G            top / bottom
//	space, x       toggle completion
//	d              delete
//	a              add a task (enter submits, esc cancels)
//	r              refresh from the backend
//	c              show or hide descriptions
//	T              cycle theme
//	h, ?           help
//	q, e, ctrl+c   quit
//
// # Errors
//
// The status bar shows the store's LastError, which the engine sets when a
// refresh fails. A failed create shows an alert line that stays until the
// next key press and leaves the typed title in the form.
package ui
