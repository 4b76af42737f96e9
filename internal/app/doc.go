// Package app provides the orchestration layer for taskdeck.
//
// # Overview
//
// This package wires together configuration, logging, the task client, the
// store and sync engine, background polling and the UI. It is the
// composition root: the CLI commands and the TUI both build their engine
// here.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> LoadConfig()        config.toml plus flag overrides
//	       ├─────> OpenLogFile()       slog text handler on log_file
//	       ├─────> prefs.Load()        theme and compact mode
//	       ├─────> NewEngine()         todos.Client + state.Store + Engine
//	       ├─────> StartPoller()       periodic LoadTasks
//	       └─────> ui.Run()            Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> engine.LoadTasks()                 │
//	│  └─> store.ReplaceAll() / SetError()    │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller waits one interval (default 30 seconds, poll_interval in the
// config) before its first refresh, since the UI loads on start. Each failed
// refresh doubles the wait, up to two minutes; a success resets it. An
// interval of zero disables polling, leaving refreshes to the user.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or invalid
//   - Log file cannot be opened
//   - Invalid API URL
//
// Everything that happens against the backend is recoverable: the engine
// records refresh failures in the store for the UI to show, and the poller
// logs them and keeps going.
package app
