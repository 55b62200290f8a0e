package flatten

import (
	"errors"
	"testing"
)

// TestHandleKeyNext verifies KeyNext selects the following visible node.
func TestHandleKeyNext(t *testing.T) {
	var got *testNode
	f := New(Options[*testNode]{
		Data:     demoTree(),
		OnSelect: func(n *testNode) { got = n },
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := HandleKey(KeyNext, 0, list); err != nil {
		t.Fatalf("handle key: %v", err)
	}
	if got == nil || got.ID != "folder" {
		t.Errorf("expected the node after root to be selected, got %+v", got)
	}
}

// TestHandleKeyPrev verifies KeyPrev selects the preceding visible node.
func TestHandleKeyPrev(t *testing.T) {
	var got *testNode
	f := New(Options[*testNode]{
		Data:     demoTree(),
		OnSelect: func(n *testNode) { got = n },
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := HandleKey(KeyPrev, 1, list); err != nil {
		t.Fatalf("handle key: %v", err)
	}
	if got == nil || got.ID != "root" {
		t.Errorf("expected the node before folder to be selected, got %+v", got)
	}
}

// TestHandleKeyOutOfBounds verifies boundary moves are no-ops, not errors.
func TestHandleKeyOutOfBounds(t *testing.T) {
	called := false
	f := New(Options[*testNode]{
		Data:     demoTree(),
		OnSelect: func(*testNode) { called = true },
	})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if err := HandleKey(KeyPrev, 0, list); err != nil {
		t.Errorf("expected no error at the top boundary, got %v", err)
	}
	if err := HandleKey(KeyNext, len(list)-1, list); err != nil {
		t.Errorf("expected no error at the bottom boundary, got %v", err)
	}
	if called {
		t.Error("expected no selection on out-of-bounds moves")
	}
}

// TestHandleKeyMissingCallback verifies the neighbor's missing-callback
// failure propagates through HandleKey.
func TestHandleKeyMissingCallback(t *testing.T) {
	f := New(Options[*testNode]{Data: demoTree()})

	list, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	err = HandleKey(KeyNext, 0, list)
	var missing *MissingCallbackError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingCallbackError, got %v", err)
	}
}
