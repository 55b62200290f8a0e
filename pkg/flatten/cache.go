package flatten

import (
	"reflect"
	"slices"
)

// cacheEntry remembers the inputs a children list was derived from so
// staleness can be detected: the parent node identity and the comparator
// identity (function pointer). Expansion-state and search-term changes are
// deliberately not part of the key — toggling a node must not re-resolve or
// re-sort subtrees that did not change.
type cacheEntry[T any] struct {
	parent   T
	cmpID    uintptr
	children []T
}

// childrenCache memoizes resolved, sorted per-parent children lists, keyed by
// the parent's resolved id. Scoped to one Flattener instance; only touched
// from the single synchronous call stack of a flattening pass.
type childrenCache[T any] struct {
	entries map[string]*cacheEntry[T]
}

func newChildrenCache[T any]() *childrenCache[T] {
	return &childrenCache[T]{entries: make(map[string]*cacheEntry[T])}
}

// children returns the resolved children of parent, sorted by cmp when one is
// supplied. The resolver and comparator run only when the cached entry is
// stale (different parent node or different comparator); a cache hit returns
// the previously sorted list untouched.
func (c *childrenCache[T]) children(id string, parent T, resolve childrenFunc[T], cmp func(a, b T) int) ([]T, error) {
	want := comparatorID(cmp)
	if e, ok := c.entries[id]; ok && e.cmpID == want && sameNode(e.parent, parent) {
		return e.children, nil
	}

	kids, err := resolve(parent)
	if err != nil {
		return nil, err
	}
	if cmp != nil && len(kids) > 1 {
		kids = slices.Clone(kids)
		slices.SortStableFunc(kids, cmp)
	}

	c.entries[id] = &cacheEntry[T]{parent: parent, cmpID: want, children: kids}
	return kids, nil
}

// reset drops every cached entry. Used when the whole data source is swapped.
func (c *childrenCache[T]) reset() {
	clear(c.entries)
}

func comparatorID[T any](cmp func(a, b T) int) uintptr {
	if cmp == nil {
		return 0
	}
	return reflect.ValueOf(cmp).Pointer()
}

// sameNode reports whether two node values are the "same" for cache staleness
// purposes: pointer identity for reference kinds, plain equality for
// comparable values, deep equality as a last resort.
func sameNode(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		if va.Len() != vb.Len() {
			return false
		}
		return va.Len() == 0 || va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
