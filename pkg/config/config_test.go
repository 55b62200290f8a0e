package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies the defaults a fresh install sees.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.View.HideRoot {
		t.Error("expected the root to be visible by default")
	}
	if cfg.Watch.PollInterval != 2*time.Second {
		t.Errorf("expected 2s poll interval, got %v", cfg.Watch.PollInterval)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected 200ms debounce, got %v", cfg.Watch.Debounce)
	}
}

// TestLoadFromMissingFile verifies a missing config file yields defaults
// without an error.
func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.PollInterval != 2*time.Second {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

// TestLoadFromParsesYAML verifies a full config round-trips.
func TestLoadFromParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
workspaces:
  - name: notes
    path: /srv/notes/tree.yaml
view:
  hide_root: true
  sort: name
watch:
  poll_interval: 5s
  force_poll: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.View.HideRoot || cfg.View.Sort != "name" {
		t.Errorf("unexpected view config: %+v", cfg.View)
	}
	if cfg.Watch.PollInterval != 5*time.Second || !cfg.Watch.ForcePoll {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}
	if ws := cfg.FindWorkspace("NOTES"); ws == nil || ws.Path != "/srv/notes/tree.yaml" {
		t.Errorf("expected case-insensitive workspace lookup, got %+v", ws)
	}
}

// TestLoadFromNormalizesZeroDurations verifies zero or negative watch
// durations fall back to defaults.
func TestLoadFromNormalizesZeroDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "watch:\n  poll_interval: 0s\n  debounce: -1s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.PollInterval != 2*time.Second {
		t.Errorf("expected poll interval fallback, got %v", cfg.Watch.PollInterval)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected debounce fallback, got %v", cfg.Watch.Debounce)
	}
}

// TestSaveToRoundTrip verifies SaveTo creates directories and LoadFrom reads
// the result back.
func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultConfig()
	original.View.Sort = "created"
	original.Workspaces = []Workspace{{Name: "work", Path: "/tmp/tree.db"}}

	if err := SaveTo(original, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.View.Sort != "created" {
		t.Errorf("expected sort to survive the round trip, got %q", loaded.View.Sort)
	}
	if len(loaded.Workspaces) != 1 || loaded.Workspaces[0].Name != "work" {
		t.Errorf("expected workspace to survive, got %+v", loaded.Workspaces)
	}
}

// TestResolvedStateDir verifies the config override wins over the XDG
// default.
func TestResolvedStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	cfg := DefaultConfig()
	if got := cfg.ResolvedStateDir(); got != filepath.Join("/xdg/state", "tl") {
		t.Errorf("expected XDG fallback, got %q", got)
	}

	cfg.StateDir = "/custom/state"
	if got := cfg.ResolvedStateDir(); got != "/custom/state" {
		t.Errorf("expected override, got %q", got)
	}
}

// TestConfigDirRespectsXDG verifies XDG_CONFIG_HOME overrides the home
// directory layout.
func TestConfigDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigDir(); got != filepath.Join("/custom/config", "tl") {
		t.Errorf("unexpected config dir %q", got)
	}
}

// TestStateDirRespectsXDG verifies XDG_STATE_HOME is honored for outline
// state.
func TestStateDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	if got := StateDir(); got != filepath.Join("/custom/state", "tl") {
		t.Errorf("unexpected state dir %q", got)
	}
}
