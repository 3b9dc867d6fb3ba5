// Package creds persists the session token and cached identity between runs.
// Credentials are stored in ~/.config/satchel/credentials.toml.
package creds
