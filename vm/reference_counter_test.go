package vm

import (
	"math/big"
	"testing"
)

// TestReferenceCounter_NestedContainerTracksCount exercises the path the
// opcode handlers drive in production: building a container nests another
// container inside it via AddReference, and popping the outer container off
// the stack releases exactly the stack reference it held.
func TestReferenceCounter_NestedContainerTracksCount(t *testing.T) {
	e := newTestEngine(t)
	refs := e.ReferenceCounter()

	if got := refs.Count(); got != 0 {
		t.Fatalf("initial Count() = %d, want 0", got)
	}

	leaf := MustNewInteger(big.NewInt(7))
	inner := NewArray([]Item{leaf}, refs) // inner holds leaf: +1
	outer := NewArray([]Item{inner}, refs) // outer holds inner: +1

	if got := refs.Count(); got != 2 {
		t.Fatalf("Count() after nesting = %d, want 2", got)
	}

	e.Push(outer) // outer on stack: +1
	if got := refs.Count(); got != 3 {
		t.Fatalf("Count() after push = %d, want 3", got)
	}

	popped, err := e.Pop() // outer off stack: -1
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if popped != outer {
		t.Fatalf("popped %v, want the pushed outer array", popped)
	}
	if got := refs.Count(); got != 2 {
		t.Fatalf("Count() after pop = %d, want 2", got)
	}

	outer.RemoveAt(0) // outer no longer holds inner: -1
	if got := refs.Count(); got != 1 {
		t.Fatalf("Count() after RemoveAt = %d, want 1", got)
	}

	inner.Clear() // inner no longer holds leaf: -1
	if got := refs.Count(); got != 0 {
		t.Fatalf("Count() after Clear = %d, want 0", got)
	}
}

// TestReferenceCounter_ArrayMutatorsBalanceReferences exercises Append,
// Set, and Clear directly, confirming each adjusts Count() by exactly the
// references it adds or drops.
func TestReferenceCounter_ArrayMutatorsBalanceReferences(t *testing.T) {
	refs := NewReferenceCounter()
	a := NewArray(nil, refs)

	a.Append(Boolean(true))
	if got := refs.Count(); got != 1 {
		t.Fatalf("Count() after Append = %d, want 1", got)
	}

	a.Set(0, Boolean(false))
	if got := refs.Count(); got != 1 {
		t.Fatalf("Count() after Set (1-for-1 swap) = %d, want 1", got)
	}

	a.Clear()
	if got := refs.Count(); got != 0 {
		t.Fatalf("Count() after Clear = %d, want 0", got)
	}
}

// TestReferenceCounter_MapSetTracksKeyAndValue confirms Map.Set takes a
// reference on both the key and the value, and that overwriting a key
// releases the displaced value's reference rather than leaking it.
func TestReferenceCounter_MapSetTracksKeyAndValue(t *testing.T) {
	refs := NewReferenceCounter()
	m := NewMap(refs)

	key := NewByteString([]byte("k"))
	if err := m.Set(key, MustNewInteger(big.NewInt(1))); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := refs.Count(); got != 2 {
		t.Fatalf("Count() after first Set = %d, want 2 (key+value)", got)
	}

	if err := m.Set(key, MustNewInteger(big.NewInt(2))); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := refs.Count(); got != 2 {
		t.Fatalf("Count() after overwrite = %d, want 2 (old value released)", got)
	}

	m.Remove(key)
	if got := refs.Count(); got != 0 {
		t.Fatalf("Count() after Remove = %d, want 0", got)
	}
}
