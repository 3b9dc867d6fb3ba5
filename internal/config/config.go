package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the satchel clients need to reach the backends.
type Config struct {
	FlashcardsURL string
	TasksURL      string
	CredsPath     string
}

const (
	defaultConfigPath    = "~/.config/satchel/config.toml"
	defaultFlashcardsURL = "http://localhost:8000"
	defaultTasksURL      = "http://localhost:8001"
)

// Load reads the config file, then applies environment overrides. A .env file
// in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		FlashcardsURL: defaultFlashcardsURL,
		TasksURL:      defaultTasksURL,
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		var raw struct {
			FlashcardsURL string `toml:"flashcards_url"`
			TasksURL      string `toml:"tasks_url"`
			CredsPath     string `toml:"creds_path"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if v := strings.TrimSpace(raw.FlashcardsURL); v != "" {
			cfg.FlashcardsURL = v
		}
		if v := strings.TrimSpace(raw.TasksURL); v != "" {
			cfg.TasksURL = v
		}
		if v := strings.TrimSpace(raw.CredsPath); v != "" {
			cfg.CredsPath = mustExpand(v)
		}
	}

	if v := strings.TrimSpace(os.Getenv("SATCHEL_FLASHCARDS_URL")); v != "" {
		cfg.FlashcardsURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SATCHEL_TASKS_URL")); v != "" {
		cfg.TasksURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SATCHEL_CREDS_PATH")); v != "" {
		cfg.CredsPath = mustExpand(v)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
