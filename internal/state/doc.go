// Package state holds the session's task collection for taskdeck.
//
// # Overview
//
// The Store is the single place the task list lives on the client. The sync
// engine is its only writer; the TUI and CLI read it through Snapshot. Next
// to the ordered collection it keeps two transient flags the presentation
// layer renders: Loading and LastError.
//
// # Operations
//
//	store.ReplaceAll(tasks)          // after a full refresh
//	store.Insert(task)               // after a confirmed create
//	store.SetCompletion(id, done)    // optimistic toggle
//	store.Remove(id)                 // optimistic delete
//	store.SetLoading(true)
//	store.SetError(msg, cause)
//
// SetCompletion and Remove return an error wrapping ErrNotFound when the id
// is absent; the collection is left unchanged in that case. Insert never
// creates a second entry for an id already present: it overwrites the
// existing entry in place.
//
// # Concurrency Model
//
// Bubble Tea runs commands on their own goroutines, so an optimistic toggle
// and a background refresh may touch the store at the same time. All access
// goes through a readers-writer lock that is held only while copying, never
// across network I/O.
//
// # Change Notifications
//
// Changes returns a channel with a buffer of one. Every mutation performs a
// non-blocking send, so a slow reader sees at most one pending notification
// no matter how many mutations happened; it then reads the latest Snapshot.
//
// # Defensive Copying
//
// Snapshot clones the task slice. Callers may modify the returned snapshot
// freely without affecting the store.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state
