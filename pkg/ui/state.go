package ui

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// OutlineState is the persisted expand/collapse state for one document.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "folder": true,    // explicitly expanded
//	    "folder2": false   // explicitly collapsed
//	  }
//	}
//
// Only explicit user changes are stored; nodes not in the map use the
// default (expanded for depth < 1, collapsed otherwise). A corrupted or
// missing file degrades to defaults.
type OutlineState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// OutlineStateVersion is the current schema version for outline persistence.
const OutlineStateVersion = 1

// DefaultOutlineState returns a new OutlineState with an empty map.
func DefaultOutlineState() *OutlineState {
	return &OutlineState{
		Version:  OutlineStateVersion,
		Expanded: make(map[string]bool),
	}
}

// OutlineStatePath returns the state file path for the document at docPath.
// Each document gets its own file under stateDir, keyed by a sanitized form
// of its absolute path so two documents never share state.
func OutlineStatePath(stateDir, docPath string) string {
	if stateDir == "" {
		return ""
	}
	abs, err := filepath.Abs(docPath)
	if err != nil {
		abs = docPath
	}
	key := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(strings.TrimPrefix(abs, "/"))
	return filepath.Join(stateDir, fmt.Sprintf("outline-%s.json", key))
}

// LoadOutlineState reads persisted state from path. Missing or corrupted
// files yield defaults; this never blocks startup.
func LoadOutlineState(path string) *OutlineState {
	state := DefaultOutlineState()
	if path == "" {
		return state
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(data, state); err != nil {
		log.Printf("warning: corrupted outline state %s: %v", path, err)
		return DefaultOutlineState()
	}
	if state.Expanded == nil {
		state.Expanded = make(map[string]bool)
	}
	return state
}

// SaveOutlineState writes state to path. Errors are logged but do not
// interrupt the user experience.
func SaveOutlineState(path string, state *OutlineState) {
	if path == "" || state == nil {
		return
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal outline state: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("warning: failed to create state directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("warning: failed to write outline state: %v", err)
	}
}
