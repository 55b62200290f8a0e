package model

import "strings"

// Comparators for sibling ordering in the tree view. All are three-way
// (negative/zero/positive) and break ties on ID so ordering stays stable
// across rebuilds.

// ByName orders siblings case-insensitively by name.
func ByName(a, b *Node) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// ByCreated orders siblings oldest first.
func ByCreated(a, b *Node) int {
	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case b.CreatedAt.Before(a.CreatedAt):
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// ByKind groups siblings by kind, then name.
func ByKind(a, b *Node) int {
	if c := strings.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return ByName(a, b)
}

// ComparatorFor maps a sort name from config or flags to a comparator.
// Unknown names (and "none") mean document order.
func ComparatorFor(name string) func(a, b *Node) int {
	switch strings.ToLower(name) {
	case "name":
		return ByName
	case "created":
		return ByCreated
	case "kind":
		return ByKind
	default:
		return nil
	}
}
