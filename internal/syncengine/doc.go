// Package syncengine keeps the client's task store in step with the backend.
//
// # Overview
//
// Each user intent maps to one protocol:
//
//   - LoadTasks: full refresh. Loading is set and the error cleared, the
//     backend list replaces the collection on success, and on failure the
//     collection is kept and LoadFailedMessage is recorded. Loading is
//     always cleared afterwards.
//   - AddTask: pessimistic. The backend assigns ids, so nothing is shown
//     until the create is confirmed. Blank titles are rejected with
//     ErrEmptyTitle before any request. Rejections come back as *AlertError.
//   - ToggleCompletion: optimistic. The flag flips in the store first, then
//     the PATCH is sent.
//   - RemoveTask: optimistic. The record leaves the store first, then the
//     DELETE is sent.
//
// A rejected toggle or delete is never patched back by hand. The engine
// resynchronizes the whole collection with LoadTasks instead, so the store
// ends up showing whatever the backend actually holds.
//
// # Per-operation State
//
//	Idle → Applied-Locally → Confirmed
//	                       → Reverted-via-Refresh
//
// # Concurrency
//
// Operations are not queued. Two toggles fired back to back both apply
// locally at once and resolve independently. Refreshes are numbered; a
// response older than one already applied is dropped, and Loading stays set
// until the last outstanding refresh returns. A resync started by a failed
// toggle or delete ignores cancellation of the caller's context.
//
// # Error Handling
//
// Nothing here is fatal. Refresh failures land in the store for display.
// The returned errors exist for callers that want them (the CLI prints
// them, the TUI mostly ignores them because the store already says it).
package syncengine
