package creds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Credentials is what survives a restart: the bearer token plus the identity
// blob cached at login so the UI can render before /profile answers.
type Credentials struct {
	Token  string `toml:"token"`
	UserID int    `toml:"user_id,omitempty"`
	Email  string `toml:"email,omitempty"`
	Name   string `toml:"name,omitempty"`
	Role   string `toml:"role,omitempty"`
}

const defaultCredsPath = "~/.config/satchel/credentials.toml"

// DefaultPath returns the default credentials file path.
func DefaultPath() string {
	return defaultCredsPath
}

// Load reads persisted credentials. A missing or unreadable file is treated as
// "not logged in" rather than an error.
func Load(path string) Credentials {
	resolved, err := resolvePath(path)
	if err != nil {
		return Credentials{}
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Credentials{}
	}

	var c Credentials
	if err := toml.Unmarshal(bytes, &c); err != nil {
		return Credentials{}
	}
	c.Token = strings.TrimSpace(c.Token)
	return c
}

// Save writes credentials to disk, creating directories as needed. The file is
// user-only readable since it holds the token.
func Save(path string, c Credentials) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create creds dir: %w", err)
	}

	bytes, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal creds: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write creds: %w", err)
	}
	return nil
}

// Clear removes the credentials file. A file that never existed is fine.
func Clear(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove creds: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultCredsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
