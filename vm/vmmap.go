package vm

import (
	"fmt"
	"math/big"
)

// mapKey is the closed set of primitive values (Boolean, Integer,
// ByteString) a Map may use as a key, reduced to a comparable Go value so
// it can index a Go map directly. Buffer and compound keys are rejected at
// SETITEM time (spec.md §3: map keys are primitive only).
type mapKey struct {
	kind ItemType
	bits string
}

func newMapKey(item Item) (mapKey, error) {
	switch v := item.(type) {
	case Boolean:
		b, _ := v.Bytes()
		return mapKey{kind: TypeBoolean, bits: string(b)}, nil
	case *Integer:
		b, _ := v.Bytes()
		return mapKey{kind: TypeInteger, bits: string(b)}, nil
	case *ByteString:
		b, _ := v.Bytes()
		if len(b) > 64 {
			return mapKey{}, fmt.Errorf("%w: map key exceeds 64 bytes", ErrInvalidParameter)
		}
		return mapKey{kind: TypeByteString, bits: string(b)}, nil
	default:
		return mapKey{}, fmt.Errorf("%w: %s is not a valid map key", ErrInvalidType, item.Type())
	}
}

type mapEntry struct {
	key   Item
	value Item
}

// Map is a mutable, reference-counted, insertion-ordered mapping from
// primitive keys to arbitrary items.
type Map struct {
	order []mapKey
	index map[mapKey]int // position of each live key in order
	entry map[mapKey]mapEntry
	ref   *refHeader
	refs  *ReferenceCounter
}

// NewMap constructs an empty Map.
func NewMap(refs *ReferenceCounter) *Map {
	return &Map{
		index: make(map[mapKey]int),
		entry: make(map[mapKey]mapEntry),
		ref:   newRefHeader(),
		refs:  refs,
	}
}

func (m *Map) Type() ItemType { return TypeMap }

func (m *Map) Boolean() bool { return true }

func (m *Map) Integer() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Map -> Integer", ErrInvalidType)
}

func (m *Map) Bytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: Map -> ByteString", ErrInvalidType)
}

func (m *Map) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeMap:
		return m, nil
	case TypeBoolean:
		return Boolean(true), nil
	default:
		return nil, fmt.Errorf("%w: Map -> %s", ErrInvalidType, t)
	}
}

func (m *Map) DeepCopy(asImmutable bool, refMap map[Item]Item) Item {
	if existing, ok := refMap[m]; ok {
		return existing
	}
	cp := NewMap(m.refs)
	refMap[m] = cp
	for _, k := range m.order {
		e := m.entry[k]
		cp.set(k, e.key.DeepCopy(asImmutable, refMap), e.value.DeepCopy(asImmutable, refMap))
	}
	return cp
}

func (m *Map) String() string { return fmt.Sprintf("Map[%d]", m.Len()) }

// Len returns the number of live entries.
func (m *Map) Len() int { return len(m.order) }

// Set inserts or updates the value for key.
func (m *Map) Set(key, value Item) error {
	k, err := newMapKey(key)
	if err != nil {
		return err
	}
	m.set(k, key, value)
	return nil
}

// set inserts or overwrites the entry for k, adjusting object references
// for whichever key/value items it displaces.
func (m *Map) set(k mapKey, key, value Item) {
	if old, ok := m.entry[k]; ok {
		m.refs.RemoveReference(old.key, m)
		m.refs.RemoveReference(old.value, m)
	} else {
		m.index[k] = len(m.order)
		m.order = append(m.order, k)
	}
	m.entry[k] = mapEntry{key: key, value: value}
	m.refs.AddReference(key, m)
	m.refs.AddReference(value, m)
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key Item) (Item, bool) {
	k, err := newMapKey(key)
	if err != nil {
		return nil, false
	}
	e, ok := m.entry[k]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Has reports whether key is present.
func (m *Map) Has(key Item) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove deletes key if present.
func (m *Map) Remove(key Item) {
	k, err := newMapKey(key)
	if err != nil {
		return
	}
	old, ok := m.entry[k]
	if !ok {
		return
	}
	m.refs.RemoveReference(old.key, m)
	m.refs.RemoveReference(old.value, m)
	delete(m.entry, k)
	idx := m.index[k]
	delete(m.index, k)
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	for i := idx; i < len(m.order); i++ {
		m.index[m.order[i]] = i
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Item {
	out := make([]Item, len(m.order))
	for i, k := range m.order {
		out[i] = m.entry[k].key
	}
	return out
}

// Values returns the values in insertion order.
func (m *Map) Values() []Item {
	out := make([]Item, len(m.order))
	for i, k := range m.order {
		out[i] = m.entry[k].value
	}
	return out
}

// Clear empties the map, releasing every entry's object references.
func (m *Map) Clear() {
	for _, k := range m.order {
		e := m.entry[k]
		m.refs.RemoveReference(e.key, m)
		m.refs.RemoveReference(e.value, m)
	}
	m.order = nil
	m.index = make(map[mapKey]int)
	m.entry = make(map[mapKey]mapEntry)
}

func (m *Map) children() []Item {
	out := make([]Item, 0, len(m.order)*2)
	for _, k := range m.order {
		e := m.entry[k]
		if needTrack(e.key) {
			out = append(out, e.key)
		}
		if needTrack(e.value) {
			out = append(out, e.value)
		}
	}
	return out
}

func (m *Map) refHeader() *refHeader { return m.ref }
