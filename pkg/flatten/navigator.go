package flatten

// Key identifies a navigation key press over the visible list.
type Key int

const (
	// KeyNext moves selection to the next visible node (e.g. arrow down).
	KeyNext Key = iota
	// KeyPrev moves selection to the previous visible node (e.g. arrow up).
	KeyPrev
)

// HandleKey invokes Select on the visible node adjacent to index in the key's
// direction. Out-of-bounds moves are no-ops, not errors. HandleKey keeps no
// cursor state of its own — the caller supplies the current index, typically
// derived from which row has focus — so it stays pure and independent of the
// build pipeline.
func HandleKey[T any](key Key, index int, visible []VisibleNode[T]) error {
	target := index
	switch key {
	case KeyNext:
		target = index + 1
	case KeyPrev:
		target = index - 1
	default:
		return nil
	}
	if target < 0 || target >= len(visible) {
		return nil
	}
	return visible[target].Select()
}
