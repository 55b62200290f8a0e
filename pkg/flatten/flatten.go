// Package flatten turns hierarchical, accessor-mediated data into the flat,
// ordered sequence of visible nodes a linear view renders.
//
// The engine walks a tree depth-first through pluggable identity/children
// accessors, honors a caller-owned expansion map, switches to a whole-tree
// search mode when a filter term is present, and memoizes resolved+sorted
// per-parent children lists so re-flattening after a pure expansion toggle
// costs only the newly revealed subtree. Each emitted node carries positional
// metadata (level, parent id, has-children) and mutation handles bound to
// caller-supplied callbacks; the engine itself never mutates caller data or
// caller state.
//
// A Flattener is synchronous and single-threaded: one Flatten call runs to
// completion with no suspension points, and instances must not be shared
// across goroutines. The accessor contract assumes a tree — a cyclic graph is
// a caller contract violation and causes non-termination, not an error.
package flatten

// Options configures a Flattener. Only Data is required; every other field
// has a usable zero value.
type Options[T any] struct {
	// Data is the root node of the tree.
	Data T
	// GetID overrides the default id accessor (an ID/Id field or "id" map key).
	GetID func(T) string
	// GetChildren overrides the default children accessor (a Children field
	// or "children" map key). Its result is cached per parent.
	GetChildren func(T) []T
	// Expanded maps node id to expansion state. Absent entries mean
	// collapsed. A nil map enables static always-expanded mode: every node
	// with children is treated as expanded.
	Expanded map[string]bool
	// OnExpandedChange receives the complete new map when a node's
	// ToggleExpanded handle fires. Omitting it makes ToggleExpanded fail
	// with *MissingCallbackError.
	OnExpandedChange func(map[string]bool)
	// OnSelect receives the raw node when a Select handle fires. Omitting it
	// makes Select fail with *MissingCallbackError.
	OnSelect func(T)
	// HideRoot omits the root itself from the output; its children become
	// the first entries (still at level 1, still carrying the root's id as
	// ParentID) and the root's subtree is walked regardless of its
	// expansion-map entry.
	HideRoot bool
	// SearchTerm, when non-empty, switches traversal to search mode.
	SearchTerm string
	// Match overrides the default search matcher (case-insensitive substring
	// on a Name field).
	Match func(node T, term string) bool
	// ChildSort is a three-way sibling comparator (negative/zero/positive).
	// Sorting is stable: ties keep accessor order. The sorted result is
	// cached until the comparator or the parent node changes.
	ChildSort func(a, b T) int
}

// Flattener derives visible-node lists from one data source. The zero value
// is not usable; construct with New.
type Flattener[T any] struct {
	opts        Options[T]
	getID       idFunc[T]
	getChildren childrenFunc[T]
	cache       *childrenCache[T]
}

// New builds a Flattener from opts. Construction never fails; configuration
// problems (accessor shape mismatches) surface from Flatten at point of use.
func New[T any](opts Options[T]) *Flattener[T] {
	f := &Flattener[T]{opts: opts, cache: newChildrenCache[T]()}
	if opts.GetID != nil {
		f.getID = func(n T) (string, error) { return opts.GetID(n), nil }
	} else {
		f.getID = defaultGetID[T]
	}
	if opts.GetChildren != nil {
		f.getChildren = func(n T) ([]T, error) { return opts.GetChildren(n), nil }
	} else {
		f.getChildren = defaultGetChildren[T]
	}
	return f
}

// SetData swaps the data source and drops the children cache wholesale: a new
// root means derived lists for its subtree can no longer be trusted.
func (f *Flattener[T]) SetData(root T) {
	f.opts.Data = root
	f.cache.reset()
}

// SetExpanded replaces the expansion map for subsequent passes. The children
// cache is untouched: this is the central performance guarantee.
func (f *Flattener[T]) SetExpanded(m map[string]bool) {
	f.opts.Expanded = m
}

// SetSearchTerm replaces the search term for subsequent passes. An empty term
// disables search mode. The children cache is untouched.
func (f *Flattener[T]) SetSearchTerm(term string) {
	f.opts.SearchTerm = term
}

// SetChildSort replaces the sibling comparator. Cached children lists sorted
// under the previous comparator are recomputed lazily on the next pass.
func (f *Flattener[T]) SetChildSort(cmp func(a, b T) int) {
	f.opts.ChildSort = cmp
}

// SetHideRoot toggles root visibility for subsequent passes.
func (f *Flattener[T]) SetHideRoot(hide bool) {
	f.opts.HideRoot = hide
}

// Flatten runs one full pass and returns the ordered visible list. The result
// wholly supersedes any previous pass; entries are fresh values and are never
// patched in place.
func (f *Flattener[T]) Flatten() ([]VisibleNode[T], error) {
	rootID, err := f.getID(f.opts.Data)
	if err != nil {
		return nil, err
	}

	out := []VisibleNode[T]{}
	if f.opts.SearchTerm != "" {
		_, err = f.searchWalk(f.opts.Data, rootID, 0, "", !f.opts.HideRoot, &out)
	} else {
		err = f.walk(f.opts.Data, rootID, 0, "", !f.opts.HideRoot, &out)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walk is the default-mode pre-order traversal. A node's children are visited
// iff the node is expanded; a hidden root's subtree is always walked.
func (f *Flattener[T]) walk(node T, id string, level int, parentID string, emitSelf bool, out *[]VisibleNode[T]) error {
	kids, err := f.cache.children(id, node, f.getChildren, f.opts.ChildSort)
	if err != nil {
		return err
	}
	hasChildren := len(kids) > 0

	descend := hasChildren
	if emitSelf {
		expanded := f.isExpanded(id, hasChildren)
		*out = append(*out, f.decorate(node, id, level, parentID, hasChildren, expanded))
		descend = hasChildren && expanded
	}
	if !descend {
		return nil
	}

	for _, kid := range kids {
		kidID, err := f.getID(kid)
		if err != nil {
			return err
		}
		if err := f.walk(kid, kidID, level+1, id, true, out); err != nil {
			return err
		}
	}
	return nil
}

// searchWalk is the search-mode traversal: expansion state is bypassed and
// every reachable node is visited. A node is emitted iff it matches the term
// or any descendant does; match status is computed children-first, then the
// node and its surviving children are appended in pre-order. Returns whether
// this subtree contains a match.
func (f *Flattener[T]) searchWalk(node T, id string, level int, parentID string, emitSelf bool, out *[]VisibleNode[T]) (bool, error) {
	kids, err := f.cache.children(id, node, f.getChildren, f.opts.ChildSort)
	if err != nil {
		return false, err
	}
	hasChildren := len(kids) > 0

	var childBuf []VisibleNode[T]
	childMatch := false
	for _, kid := range kids {
		kidID, err := f.getID(kid)
		if err != nil {
			return false, err
		}
		matched, err := f.searchWalk(kid, kidID, level+1, id, true, &childBuf)
		if err != nil {
			return false, err
		}
		childMatch = childMatch || matched
	}

	selfMatch := f.match(node, f.opts.SearchTerm)
	if !emitSelf {
		// Hidden root: pass surviving children through; the root's own
		// match status never matters for emission.
		*out = append(*out, childBuf...)
		return childMatch, nil
	}
	if selfMatch || childMatch {
		// Ancestors of a match report Expanded=true so the matched path
		// stays fully visible; a match with no matching descendants is
		// emitted childless and collapsed.
		*out = append(*out, f.decorate(node, id, level, parentID, hasChildren, childMatch))
		*out = append(*out, childBuf...)
		return true, nil
	}
	return false, nil
}

// isExpanded applies the expansion policy for default-mode traversal.
func (f *Flattener[T]) isExpanded(id string, hasChildren bool) bool {
	if f.opts.Expanded == nil {
		return hasChildren
	}
	return f.opts.Expanded[id]
}

func (f *Flattener[T]) match(node T, term string) bool {
	if f.opts.Match != nil {
		return f.opts.Match(node, term)
	}
	return defaultMatch(node, term)
}

// decorate wraps a raw node with positional metadata and callback-bound
// mutation handles.
func (f *Flattener[T]) decorate(node T, id string, level int, parentID string, hasChildren, expanded bool) VisibleNode[T] {
	return VisibleNode[T]{
		Node:        node,
		ID:          id,
		Level:       level,
		ParentID:    parentID,
		HasChildren: hasChildren,
		Expanded:    expanded,

		onSelect:         f.opts.OnSelect,
		onExpandedChange: f.opts.OnExpandedChange,
		expanded:         f.opts.Expanded,
	}
}
