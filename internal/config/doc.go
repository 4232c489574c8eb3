// Package config loads Stockwell's TOML configuration file and environment
// overrides.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stockwell/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. Apply STOCKWELL_* environment variables over the result
//
// # Default Values
//
//   - Config file: ~/.config/stockwell/config.toml
//   - API base: http://127.0.0.1:8700
//   - Page size: 10
//   - Search debounce: 500ms
//   - Autosave debounce: 1500ms
//   - Draft directory: ~/.local/share/stockwell/drafts
//   - Log file: ~/.local/share/stockwell/stockwell.log
//   - Log level: info
//
// # Environment Overrides
//
// Three fields may be set from the environment, and win over the file:
//
//   - STOCKWELL_API_BASE
//   - STOCKWELL_API_TOKEN
//   - STOCKWELL_LOG_LEVEL
//
// Tokens are expected to arrive this way; keeping them out of the config
// file is the point of the overlay.
//
// # TOML Format
//
// Example config.toml:
//
//	api_base = "https://catalog.example.com"
//	page_size = 25
//	search_debounce_ms = 500
//	autosave_debounce_ms = 1500
//	draft_dir = "~/.local/share/stockwell/drafts"
//	log_level = "debug"
//
// All fields are optional. Tilde expansion is performed automatically for
// the config path, draft_dir and log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers defaults) and TOML parsing errors. A
// missing config file is NOT an error; Stockwell works out-of-the-box
// against a local service.
package config
