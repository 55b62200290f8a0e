package flatten

import (
	"strings"
	"testing"
)

// TestCacheSkipsComparatorOnExpansionChange verifies the central performance
// guarantee: re-flattening after a pure expansion-map change must not
// re-invoke the sort comparator.
func TestCacheSkipsComparatorOnExpansionChange(t *testing.T) {
	calls := 0
	byName := func(a, b *testNode) int {
		calls++
		return strings.Compare(a.Name, b.Name)
	}

	f := New(Options[*testNode]{
		Data:      demoTree(),
		Expanded:  map[string]bool{"root": true, "folder2": true},
		ChildSort: byName,
	})
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	warm := calls
	f.SetExpanded(map[string]bool{"root": true})
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if calls != warm {
		t.Errorf("expected no comparator calls after expansion-only change, got %d extra", calls-warm)
	}
}

// TestCacheSkipsResolveOnExpansionChange verifies getChildren is not
// re-invoked for subtrees that were already resolved.
func TestCacheSkipsResolveOnExpansionChange(t *testing.T) {
	calls := 0
	f := New(Options[*testNode]{
		Data: demoTree(),
		GetChildren: func(n *testNode) []*testNode {
			calls++
			return n.Children
		},
	})
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	warm := calls
	f.SetExpanded(map[string]bool{"root": true})
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if calls != warm {
		t.Errorf("expected no getChildren calls after expansion-only change, got %d extra", calls-warm)
	}
}

// TestCacheRecomputesOnComparatorChange verifies swapping the comparator
// invalidates cached orderings.
func TestCacheRecomputesOnComparatorChange(t *testing.T) {
	f := New(Options[*testNode]{
		Data:      demoTree(),
		ChildSort: func(a, b *testNode) int { return strings.Compare(a.Name, b.Name) },
	})
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	f.SetChildSort(func(a, b *testNode) int { return strings.Compare(b.Name, a.Name) })
	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	assertIDs(t, list, "root", "folder2", "nestedItem", "folder")
}

// TestCacheRecomputesOnDataChange verifies SetData drops derived lists so a
// swapped source is re-resolved.
func TestCacheRecomputesOnDataChange(t *testing.T) {
	f := New(Options[*testNode]{Data: demoTree()})
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	next := demoTree()
	next.Children = append(next.Children, &testNode{ID: "folder3", Name: "Folder Three"})
	f.SetData(next)

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	assertIDs(t, list, "root", "folder", "folder2", "nestedItem", "folder3")
}

// TestCacheSurvivesSearchTermChange verifies that entering and leaving search
// mode re-invokes neither the resolver nor the comparator once the tree has
// been fully resolved.
func TestCacheSurvivesSearchTermChange(t *testing.T) {
	resolveCalls, cmpCalls := 0, 0
	f := New(Options[*testNode]{
		Data: demoTree(),
		GetChildren: func(n *testNode) []*testNode {
			resolveCalls++
			return n.Children
		},
		ChildSort: func(a, b *testNode) int {
			cmpCalls++
			return strings.Compare(a.Name, b.Name)
		},
	})
	// Static mode resolves the whole tree on the first pass.
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	warmResolve, warmCmp := resolveCalls, cmpCalls
	f.SetSearchTerm("Two")
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten with search: %v", err)
	}
	f.SetSearchTerm("")
	if _, err := f.Flatten(); err != nil {
		t.Fatalf("flatten after clearing search: %v", err)
	}

	if resolveCalls != warmResolve {
		t.Errorf("expected no getChildren calls across search toggling, got %d extra", resolveCalls-warmResolve)
	}
	if cmpCalls != warmCmp {
		t.Errorf("expected no comparator calls across search toggling, got %d extra", cmpCalls-warmCmp)
	}
}

// TestSameNode covers the identity rules the cache staleness check relies on.
func TestSameNode(t *testing.T) {
	a := &testNode{ID: "a"}
	b := &testNode{ID: "a"}

	if !sameNode(a, a) {
		t.Error("expected a pointer to be the same node as itself")
	}
	if sameNode(a, b) {
		t.Error("expected distinct pointers to be distinct nodes")
	}
	if !sameNode("x", "x") || sameNode("x", "y") {
		t.Error("expected comparable values to use plain equality")
	}
	if sameNode(nil, a) || !sameNode(nil, nil) {
		t.Error("expected nil handling to be exact")
	}
}
