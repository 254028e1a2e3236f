// Package config loads the application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskwire/taskwire/internal/storage"
)

// Config represents the full Taskwire configuration
type Config struct {
	Server ServerConfig `json:"server"`
	User   UserConfig   `json:"user"`
	Data   DataConfig   `json:"data"`
	Sync   SyncConfig   `json:"sync"`
	UI     UIConfig     `json:"ui"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig contains the backend endpoints
type ServerConfig struct {
	BaseURL string `json:"baseUrl"`
	LiveURL string `json:"liveUrl"`
}

// UserConfig identifies the local user to the backend
type UserConfig struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DataConfig contains local storage settings
type DataConfig struct {
	Dir    string `json:"dir"`
	DBPath string `json:"dbPath"`
}

// SyncConfig tunes the optimistic update coordinator
type SyncConfig struct {
	DebounceMs int `json:"debounceMs"`
	PageSize   int `json:"pageSize"`
}

// UIConfig contains list rendering settings
type UIConfig struct {
	VirtualThreshold int `json:"virtualThreshold"`
	Overscan         int `json:"overscan"`
	TypingTimeoutMs  int `json:"typingTimeoutMs"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	dataDir := storage.DefaultDataDir()

	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080/api",
			LiveURL: "ws://localhost:8080",
		},
		Data: DataConfig{
			Dir:    dataDir,
			DBPath: filepath.Join(dataDir, "taskwire.db"),
		},
		Sync: SyncConfig{
			DebounceMs: 1000,
			PageSize:   50,
		},
		UI: UIConfig{
			VirtualThreshold: 200,
			Overscan:         10,
			TypingTimeoutMs:  1000,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "taskwire.log"),
		},
	}
}

// LoadConfig loads configuration with priority:
// 1. .taskwire.json in the given directory
// 2. Defaults
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".taskwire.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return MergeWithDefaults(&cfg), nil
}

// SaveConfig saves configuration to the specified path
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = defaults.Server.BaseURL
	}
	if cfg.Server.LiveURL == "" {
		cfg.Server.LiveURL = defaults.Server.LiveURL
	}

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = defaults.Data.Dir
	}
	if cfg.Data.DBPath == "" {
		cfg.Data.DBPath = filepath.Join(cfg.Data.Dir, "taskwire.db")
	}

	if cfg.Sync.DebounceMs == 0 {
		cfg.Sync.DebounceMs = defaults.Sync.DebounceMs
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = defaults.Sync.PageSize
	}

	if cfg.UI.VirtualThreshold == 0 {
		cfg.UI.VirtualThreshold = defaults.UI.VirtualThreshold
	}
	if cfg.UI.Overscan == 0 {
		cfg.UI.Overscan = defaults.UI.Overscan
	}
	if cfg.UI.TypingTimeoutMs == 0 {
		cfg.UI.TypingTimeoutMs = defaults.UI.TypingTimeoutMs
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Data.Dir, "taskwire.log")
	}

	return cfg
}
