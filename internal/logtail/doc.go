// Package logtail reads and colorizes taskdeck's log file.
//
// The TUI owns the terminal, so its engine and poller diagnostics go to a
// file written by slog's text handler (log_file in the config). `taskdeck
// logs` uses this package to show the newest records from that file.
//
// Read scans the file once, keeping only lines at or above Options.MinLevel.
// Lines that carry no level= attribute, such as a panic trace, are always
// kept. With MaxLines set, memory stays bounded by a small multiple of
// MaxLines regardless of file size.
//
//	lines, err := logtail.Read(cfg.LogFile, logtail.Options{MaxLines: 200, MinLevel: slog.LevelWarn})
//
// ColorizeLine highlights the time and level fields with lipgloss and leaves
// everything else untouched.
package logtail
