package vm

import (
	"fmt"
	"math/big"
)

// Array is a mutable, reference-counted, ordered sequence. Array identity
// is what EQUAL compares (see equality.go); use Struct for value-like
// by-content comparison.
type Array struct {
	items []Item
	ref   *refHeader
	refs  *ReferenceCounter
}

// NewArray constructs an Array holding a copy of items, taking an object
// reference on each (the array is the parent holding them).
func NewArray(items []Item, refs *ReferenceCounter) *Array {
	cp := make([]Item, len(items))
	copy(cp, items)
	a := &Array{items: cp, ref: newRefHeader(), refs: refs}
	for _, it := range cp {
		refs.AddReference(it, a)
	}
	return a
}

func (a *Array) Type() ItemType { return TypeArray }

func (a *Array) Boolean() bool { return true }

func (a *Array) Integer() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Array -> Integer", ErrInvalidType)
}

func (a *Array) Bytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: Array -> ByteString", ErrInvalidType)
}

func (a *Array) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeArray:
		return a, nil
	case TypeStruct:
		return NewStruct(a.items, a.refs), nil
	case TypeBoolean:
		return Boolean(true), nil
	default:
		return nil, fmt.Errorf("%w: Array -> %s", ErrInvalidType, t)
	}
}

func (a *Array) DeepCopy(asImmutable bool, refMap map[Item]Item) Item {
	if existing, ok := refMap[a]; ok {
		return existing
	}
	cp := &Array{items: make([]Item, len(a.items)), ref: newRefHeader(), refs: a.refs}
	refMap[a] = cp
	for i, it := range a.items {
		cp.items[i] = it.DeepCopy(asImmutable, refMap)
		a.refs.AddReference(cp.items[i], cp)
	}
	return cp
}

func (a *Array) String() string { return fmt.Sprintf("Array[%d]", len(a.items)) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// At returns the element at index.
func (a *Array) At(index int) Item { return a.items[index] }

// Set replaces the element at index, trading the outgoing item's object
// reference for the incoming one.
func (a *Array) Set(index int, item Item) {
	old := a.items[index]
	a.items[index] = item
	a.refs.AddReference(item, a)
	a.refs.RemoveReference(old, a)
}

// Append adds item to the end, taking an object reference on it.
func (a *Array) Append(item Item) {
	a.items = append(a.items, item)
	a.refs.AddReference(item, a)
}

// RemoveAt deletes the element at index, preserving order, and releases
// its object reference.
func (a *Array) RemoveAt(index int) {
	item := a.items[index]
	a.items = append(a.items[:index], a.items[index+1:]...)
	a.refs.RemoveReference(item, a)
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
}

// Clear empties the array, releasing every element's object reference.
func (a *Array) Clear() {
	for _, it := range a.items {
		a.refs.RemoveReference(it, a)
	}
	a.items = a.items[:0]
}

// Items returns a read-only view of the underlying slice.
func (a *Array) Items() []Item { return a.items }

func (a *Array) children() []Item {
	out := make([]Item, 0, len(a.items))
	for _, it := range a.items {
		if needTrack(it) {
			out = append(out, it)
		}
	}
	return out
}

func (a *Array) refHeader() *refHeader { return a.ref }
