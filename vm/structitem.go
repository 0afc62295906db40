package vm

import (
	"fmt"
	"math/big"
)

// Struct is a mutable, reference-counted, ordered sequence like Array, but
// EQUAL compares Structs by recursive structural equality (within a work
// budget) rather than by identity.
type Struct struct {
	items []Item
	ref   *refHeader
	refs  *ReferenceCounter
}

// NewStruct constructs a Struct holding a copy of items, taking an object
// reference on each (the struct is the parent holding them).
func NewStruct(items []Item, refs *ReferenceCounter) *Struct {
	cp := make([]Item, len(items))
	copy(cp, items)
	s := &Struct{items: cp, ref: newRefHeader(), refs: refs}
	for _, it := range cp {
		refs.AddReference(it, s)
	}
	return s
}

func (s *Struct) Type() ItemType { return TypeStruct }

func (s *Struct) Boolean() bool { return true }

func (s *Struct) Integer() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Struct -> Integer", ErrInvalidType)
}

func (s *Struct) Bytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: Struct -> ByteString", ErrInvalidType)
}

func (s *Struct) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeStruct:
		return s, nil
	case TypeArray:
		return NewArray(s.items, s.refs), nil
	case TypeBoolean:
		return Boolean(true), nil
	default:
		return nil, fmt.Errorf("%w: Struct -> %s", ErrInvalidType, t)
	}
}

func (s *Struct) DeepCopy(asImmutable bool, refMap map[Item]Item) Item {
	if existing, ok := refMap[s]; ok {
		return existing
	}
	cp := &Struct{items: make([]Item, len(s.items)), ref: newRefHeader(), refs: s.refs}
	refMap[s] = cp
	for i, it := range s.items {
		cp.items[i] = it.DeepCopy(asImmutable, refMap)
		s.refs.AddReference(cp.items[i], cp)
	}
	return cp
}

// Clone returns DeepCopy(false, ...) run with a fresh reference map: the
// result is a new, independent Struct in which shared or cyclic
// substructure of the original stays shared or cyclic in the copy.
func (s *Struct) Clone() *Struct {
	return s.DeepCopy(false, make(map[Item]Item)).(*Struct)
}

func (s *Struct) String() string { return fmt.Sprintf("Struct[%d]", len(s.items)) }

func (s *Struct) Len() int { return len(s.items) }

func (s *Struct) At(index int) Item { return s.items[index] }

func (s *Struct) Set(index int, item Item) {
	old := s.items[index]
	s.items[index] = item
	s.refs.AddReference(item, s)
	s.refs.RemoveReference(old, s)
}

func (s *Struct) Append(item Item) {
	s.items = append(s.items, item)
	s.refs.AddReference(item, s)
}

func (s *Struct) RemoveAt(index int) {
	item := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.refs.RemoveReference(item, s)
}

func (s *Struct) Reverse() {
	for i, j := 0, len(s.items)-1; i < j; i, j = i+1, j-1 {
		s.items[i], s.items[j] = s.items[j], s.items[i]
	}
}

func (s *Struct) Clear() {
	for _, it := range s.items {
		s.refs.RemoveReference(it, s)
	}
	s.items = s.items[:0]
}

func (s *Struct) Items() []Item { return s.items }

func (s *Struct) children() []Item {
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if needTrack(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Struct) refHeader() *refHeader { return s.ref }
