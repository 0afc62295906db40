package vm

// Slot holds a fixed-size run of local variables, arguments, or static
// fields for an execution context. Unlike EvaluationStack it never grows
// or shrinks after construction (INITSLOT fixes the counts up front).
type Slot struct {
	items []Item
	refs  *ReferenceCounter
}

// NewSlot constructs a slot holding exactly items, taking a stack
// reference on each.
func NewSlot(items []Item, refs *ReferenceCounter) *Slot {
	s := &Slot{items: append([]Item(nil), items...), refs: refs}
	for _, item := range s.items {
		refs.AddStackReference(item, 1)
	}
	return s
}

// NewSlotWithCount constructs a slot of count elements, all initialized to
// Null (INITSLOT's default fill).
func NewSlotWithCount(count int, refs *ReferenceCounter) *Slot {
	items := make([]Item, count)
	for i := range items {
		items[i] = Null
	}
	refs.AddStackReference(Null, count)
	return &Slot{items: items, refs: refs}
}

// Count returns the number of elements in the slot.
func (s *Slot) Count() int { return len(s.items) }

// Get returns the element at index.
func (s *Slot) Get(index int) Item { return s.items[index] }

// Set replaces the element at index, adjusting reference counts for the
// outgoing and incoming items.
func (s *Slot) Set(index int, item Item) {
	old := s.items[index]
	s.items[index] = item
	s.refs.AddStackReference(item, 1)
	s.refs.RemoveStackReference(old)
}

// ClearReferences releases every stack reference held by the slot, without
// altering its contents. Called when an execution context unloads.
func (s *Slot) ClearReferences() {
	for _, item := range s.items {
		s.refs.RemoveStackReference(item)
	}
}
