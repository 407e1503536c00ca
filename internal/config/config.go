package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines the sandbox location, sync timing, and session parameters.
type Config struct {
	Sandbox struct {
		Root    string   `yaml:"root"`    // Root directory of the sandbox filesystem
		Ignore  []string `yaml:"ignore"`  // Glob patterns excluded from listings
		MaxSize int64    `yaml:"max_size"` // Largest file pulled into memory, in bytes
	} `yaml:"sandbox"`
	Sync struct {
		PollInterval    int  `yaml:"poll_interval"`    // Sandbox poll interval in seconds
		DebounceSeconds int  `yaml:"debounce_seconds"` // Idle period before an autosave fires
		TeardownTimeout int  `yaml:"teardown_timeout"` // Best-effort teardown write budget in seconds
		WatchEnabled    bool `yaml:"watch_enabled"`    // React to filesystem change events between polls
	} `yaml:"sync"`
	Session struct {
		TranscriptCapacity int `yaml:"transcript_capacity"` // Max transcript lines kept
		HistoryCapacity    int `yaml:"history_capacity"`    // Max recalled commands kept
	} `yaml:"session"`
}

// LoadConfig loads configuration from the default location
// (~/.config/workbench/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "workbench", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge the loaded config with defaults
	if tempCfg.Sandbox.Root != "" {
		cfg.Sandbox.Root = tempCfg.Sandbox.Root
	}
	if len(tempCfg.Sandbox.Ignore) > 0 {
		cfg.Sandbox.Ignore = tempCfg.Sandbox.Ignore
	}
	if tempCfg.Sandbox.MaxSize > 0 {
		cfg.Sandbox.MaxSize = tempCfg.Sandbox.MaxSize
	}

	if tempCfg.Sync.PollInterval > 0 {
		cfg.Sync.PollInterval = tempCfg.Sync.PollInterval
	}
	if tempCfg.Sync.DebounceSeconds > 0 {
		cfg.Sync.DebounceSeconds = tempCfg.Sync.DebounceSeconds
	}
	if tempCfg.Sync.TeardownTimeout > 0 {
		cfg.Sync.TeardownTimeout = tempCfg.Sync.TeardownTimeout
	}
	cfg.Sync.WatchEnabled = tempCfg.Sync.WatchEnabled

	if tempCfg.Session.TranscriptCapacity > 0 {
		cfg.Session.TranscriptCapacity = tempCfg.Session.TranscriptCapacity
	}
	if tempCfg.Session.HistoryCapacity > 0 {
		cfg.Session.HistoryCapacity = tempCfg.Session.HistoryCapacity
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// New returns the default configuration with safe defaults.
func New() *Config {
	cfg := &Config{}

	cfg.Sandbox.Root = "."
	cfg.Sandbox.Ignore = []string{".git", "__pycache__", "*.pyc", "node_modules"}
	cfg.Sandbox.MaxSize = 1 << 20 // 1 MiB

	cfg.Sync.PollInterval = 5
	cfg.Sync.DebounceSeconds = 2
	cfg.Sync.TeardownTimeout = 2
	cfg.Sync.WatchEnabled = true

	cfg.Session.TranscriptCapacity = 500
	cfg.Session.HistoryCapacity = 100

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is nil")
	}
	if c.Sync.PollInterval < 1 {
		return fmt.Errorf("poll_interval must be at least 1 second, got %d", c.Sync.PollInterval)
	}
	if c.Sync.DebounceSeconds < 1 {
		return fmt.Errorf("debounce_seconds must be at least 1 second, got %d", c.Sync.DebounceSeconds)
	}
	if c.Session.TranscriptCapacity < 1 {
		return fmt.Errorf("transcript_capacity must be positive, got %d", c.Session.TranscriptCapacity)
	}
	if c.Session.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity must be positive, got %d", c.Session.HistoryCapacity)
	}
	if c.Sandbox.MaxSize < 0 {
		return fmt.Errorf("max_size must not be negative, got %d", c.Sandbox.MaxSize)
	}
	return nil
}
