// Package config loads taskdeck's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/taskdeck/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/taskdeck/config.toml
//   - API URL: http://localhost:8000
//   - Request timeout: 5s
//   - Poll interval: 30s ("0s" disables background refresh)
//   - Log file: ~/.local/state/taskdeck/taskdeck.log
//   - Default description: "Created via Web UI"
//
// # TOML Format
//
//	api_url = "http://localhost:8000"
//	request_timeout = "5s"
//	poll_interval = "30s"
//	log_file = "~/.local/state/taskdeck/taskdeck.log"
//	default_description = "Created via Web UI"
//
// Every field is optional. Durations use time.ParseDuration syntax. Tilde
// expansion is applied to log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and invalid durations
//
// Missing config files are NOT an error. taskdeck works against a backend
// on localhost:8000 without any configuration.
//
// The config package is read-only and stateless: it loads configuration
// once at startup and returns an immutable Config struct.
package config
