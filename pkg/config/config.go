// Package config handles loading and saving tl configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tl/config.yaml
//   - Data:    ~/.local/share/tl/ (exports)
//   - State:   ~/.local/state/tl/ (per-document outline state)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Workspace is a registered outline document or directory in the config.
type Workspace struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ViewConfig holds browser preference settings.
type ViewConfig struct {
	HideRoot bool   `yaml:"hide_root,omitempty"` // Hide the root node, show its children at the top
	Sort     string `yaml:"sort,omitempty"`      // name, created, kind; empty keeps document order
	Theme    string `yaml:"theme,omitempty"`     // dark, light
}

// WatchConfig controls the document watcher.
type WatchConfig struct {
	Disabled     bool          `yaml:"disabled,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for tl.
type Config struct {
	Workspaces []Workspace `yaml:"workspaces,omitempty"`
	View       ViewConfig  `yaml:"view,omitempty"`
	Watch      WatchConfig `yaml:"watch,omitempty"`
	StateDir   string      `yaml:"state_dir,omitempty"` // Overrides the XDG state dir
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Watch: WatchConfig{
			PollInterval: 2 * time.Second,
			Debounce:     200 * time.Millisecond,
		},
	}
}

// ConfigDir returns the XDG config directory for tl.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tl")
}

// DataDir returns the XDG data directory for tl.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "tl")
}

// StateDir returns the XDG state directory for tl.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "tl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "tl")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Watch.PollInterval <= 0 {
		cfg.Watch.PollInterval = 2 * time.Second
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}

	// Expand ~ in workspace paths
	for i := range cfg.Workspaces {
		cfg.Workspaces[i].Path = expandHome(cfg.Workspaces[i].Path)
	}
	cfg.StateDir = expandHome(cfg.StateDir)

	return cfg, nil
}

// ResolvedStateDir returns the configured state directory, falling back to
// the XDG default.
func (c Config) ResolvedStateDir() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	return StateDir()
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindWorkspace returns the workspace with the given name, or nil.
func (c Config) FindWorkspace(name string) *Workspace {
	for i := range c.Workspaces {
		if strings.EqualFold(c.Workspaces[i].Name, name) {
			return &c.Workspaces[i]
		}
	}
	return nil
}

// ResolvedPath returns the workspace path with ~ expanded.
func (w Workspace) ResolvedPath() string {
	return expandHome(w.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
