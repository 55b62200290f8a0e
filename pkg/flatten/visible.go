package flatten

import (
	"fmt"
	"maps"
)

// MissingCallbackError is returned when a VisibleNode mutation handle is
// invoked but the matching callback was never configured. It names the omitted
// option so the caller can see which control was wired without an effect.
// Raised lazily at invocation, never at build time: trees that never use
// these handles pay nothing for omitting the callbacks.
type MissingCallbackError struct {
	Option string
}

func (e *MissingCallbackError) Error() string {
	return fmt.Sprintf("flatten: Options.%s is not set; the control bound to it has no effect", e.Option)
}

// VisibleNode is one entry of the flattened output: the caller's raw node plus
// positional metadata and mutation handles bound to the caller's callbacks.
// Values are created fresh on every flattening pass, never mutated after
// creation, and replaced wholesale by the next pass.
type VisibleNode[T any] struct {
	// Node is the caller's raw data node, untouched.
	Node T
	// ID is the node's identity as resolved by the id accessor.
	ID string
	// Level is the node's depth from the (possibly hidden) root; a shown
	// root is level 0.
	Level int
	// ParentID identifies the node's immediate traversal parent. Empty for
	// a shown root. When the root is hidden its direct children still carry
	// the root's id here.
	ParentID string
	// HasChildren is true unless the resolved children list is absent or
	// empty.
	HasChildren bool
	// Expanded reflects the expansion-map lookup (or the always-expanded
	// policy when no map was supplied). In search mode it is true exactly
	// for nodes with a matching descendant.
	Expanded bool

	onSelect         func(T)
	onExpandedChange func(map[string]bool)
	expanded         map[string]bool
}

// Select invokes the caller's selection callback with the underlying raw node.
// Returns *MissingCallbackError if Options.OnSelect was omitted.
func (v VisibleNode[T]) Select() error {
	if v.onSelect == nil {
		return &MissingCallbackError{Option: "OnSelect"}
	}
	v.onSelect(v.Node)
	return nil
}

// IsSelected reports whether the given id is this node's own id. No selection
// state is kept here; the caller compares against its own.
func (v VisibleNode[T]) IsSelected(id string) bool {
	return id == v.ID
}

// ToggleExpanded computes the complete new expansion map with this node's
// entry flipped (an absent entry defaults to false, so the first toggle always
// expands) and hands it to the caller's expansion-change callback. The
// caller's current map is never mutated. Returns *MissingCallbackError if
// Options.OnExpandedChange was omitted: supplying Expanded without a change
// handler makes a toggle that cannot take effect, and a descriptive failure
// at the call site beats a silent no-op.
func (v VisibleNode[T]) ToggleExpanded() error {
	if v.onExpandedChange == nil {
		return &MissingCallbackError{Option: "OnExpandedChange"}
	}
	next := make(map[string]bool, len(v.expanded)+1)
	maps.Copy(next, v.expanded)
	next[v.ID] = !v.expanded[v.ID]
	v.onExpandedChange(next)
	return nil
}
