package flatten

import (
	"errors"
	"testing"
)

// TestSelectDeliversRawNode verifies Select hands the caller's own node to
// the selection callback.
func TestSelectDeliversRawNode(t *testing.T) {
	var got *testNode
	f := New(Options[*testNode]{
		Data:     demoTree(),
		OnSelect: func(n *testNode) { got = n },
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := list[2].Select(); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got == nil || got.ID != "folder2" {
		t.Errorf("expected OnSelect to receive folder2, got %+v", got)
	}
}

// TestSelectMissingCallback verifies Select fails lazily with a descriptive
// error naming the omitted option.
func TestSelectMissingCallback(t *testing.T) {
	f := New(Options[*testNode]{Data: demoTree()})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	err = list[0].Select()
	var missing *MissingCallbackError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingCallbackError, got %v", err)
	}
	if missing.Option != "OnSelect" {
		t.Errorf("expected the error to name OnSelect, got %q", missing.Option)
	}
}

// TestToggleMissingCallback verifies ToggleExpanded fails the same way when
// no expansion-change handler was supplied, even if an expansion map was.
func TestToggleMissingCallback(t *testing.T) {
	f := New(Options[*testNode]{
		Data:     demoTree(),
		Expanded: map[string]bool{"root": true},
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	err = list[0].ToggleExpanded()
	var missing *MissingCallbackError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingCallbackError, got %v", err)
	}
	if missing.Option != "OnExpandedChange" {
		t.Errorf("expected the error to name OnExpandedChange, got %q", missing.Option)
	}
}

// TestToggleProducesCompleteNewMap verifies the callback receives the full
// new map with one entry flipped and the caller's map is not mutated.
func TestToggleProducesCompleteNewMap(t *testing.T) {
	current := map[string]bool{"root": true}
	var next map[string]bool
	f := New(Options[*testNode]{
		Data:             demoTree(),
		Expanded:         current,
		OnExpandedChange: func(m map[string]bool) { next = m },
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := list[2].ToggleExpanded(); err != nil { // folder2, absent entry
		t.Fatalf("toggle: %v", err)
	}

	if !next["root"] || !next["folder2"] {
		t.Errorf("expected complete map with folder2 flipped to true, got %v", next)
	}
	if len(current) != 1 || !current["root"] {
		t.Errorf("caller's map was mutated: %v", current)
	}

	// A second toggle from the new map flips back to false.
	f.SetExpanded(next)
	list, err = f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := list[2].ToggleExpanded(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if next["folder2"] {
		t.Errorf("expected folder2 flipped back to false, got %v", next)
	}
}

// TestToggleInStaticMode verifies the first toggle with no expansion map at
// all still produces an expanding entry.
func TestToggleInStaticMode(t *testing.T) {
	var next map[string]bool
	f := New(Options[*testNode]{
		Data:             demoTree(),
		OnExpandedChange: func(m map[string]bool) { next = m },
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := list[0].ToggleExpanded(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(next) != 1 || !next["root"] {
		t.Errorf("expected {root:true}, got %v", next)
	}
}

// TestIsSelected verifies the pure equality check against the node's own id.
func TestIsSelected(t *testing.T) {
	f := New(Options[*testNode]{Data: demoTree()})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !list[1].IsSelected("folder") {
		t.Error("expected folder to report itself selected for its own id")
	}
	if list[1].IsSelected("folder2") {
		t.Error("expected folder not to report selected for another id")
	}
}
