// Package config handles loading and parsing the satchel client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/satchel/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. Environment variables override file values; a .env file in the working
//     directory is honored when present
//
// # Configuration Fields
//
//   - FlashcardsURL: base URL of the flashcard service (SATCHEL_FLASHCARDS_URL)
//   - TasksURL: base URL of the task service (SATCHEL_TASKS_URL)
//   - CredsPath: credentials file location (SATCHEL_CREDS_PATH)
//
// # TOML Format
//
// Example config.toml:
//
//	flashcards_url = "http://localhost:8000"
//	tasks_url = "http://localhost:8001"
//	creds_path = "~/.config/satchel/credentials.toml"
//
// All fields are optional. Tilde expansion is performed automatically.
//
// Missing config files are NOT an error - defaults are used instead. This
// allows satchel to work out-of-the-box against a local backend.
package config
