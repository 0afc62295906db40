package vm

import "fmt"

// EvaluationStack is a single context's operand stack. Index 0 is always
// the top of stack; Peek(i)/Remove(i) count down from there, matching
// evaluation_stack.rs's count()-index-1 addressing (DUP2/XDROP/PICK index
// relative to the top, not the bottom).
type EvaluationStack struct {
	items []Item
	refs  *ReferenceCounter
}

// NewEvaluationStack returns an empty stack backed by refs.
func NewEvaluationStack(refs *ReferenceCounter) *EvaluationStack {
	return &EvaluationStack{refs: refs}
}

// Count returns the number of items on the stack.
func (s *EvaluationStack) Count() int { return len(s.items) }

// Push adds item to the top of the stack.
func (s *EvaluationStack) Push(item Item) {
	s.items = append(s.items, item)
	s.refs.AddStackReference(item, 1)
}

// Pop removes and returns the top item.
func (s *EvaluationStack) Pop() (Item, error) {
	return s.Remove(0)
}

// Peek returns the item at index positions below the top without removing
// it (Peek(0) is the top).
func (s *EvaluationStack) Peek(index int) (Item, error) {
	if index < 0 || index >= len(s.items) {
		return nil, fmt.Errorf("%w: peek index %d", ErrInvalidParameter, index)
	}
	return s.items[len(s.items)-index-1], nil
}

// Remove deletes and returns the item at index positions below the top.
func (s *EvaluationStack) Remove(index int) (Item, error) {
	if index < 0 || index >= len(s.items) {
		return nil, fmt.Errorf("%w: remove index %d", ErrInvalidParameter, index)
	}
	at := len(s.items) - index - 1
	item := s.items[at]
	s.items = append(s.items[:at], s.items[at+1:]...)
	s.refs.RemoveStackReference(item)
	return item, nil
}

// Insert places item index positions below the current top (Insert(0, x)
// is equivalent to Push(x)).
func (s *EvaluationStack) Insert(index int, item Item) error {
	if index < 0 || index > len(s.items) {
		return fmt.Errorf("%w: insert index %d", ErrInvalidParameter, index)
	}
	at := len(s.items) - index
	s.items = append(s.items, nil)
	copy(s.items[at+1:], s.items[at:])
	s.items[at] = item
	s.refs.AddStackReference(item, 1)
	return nil
}

// Reverse reverses the top n items in place.
func (s *EvaluationStack) Reverse(n int) error {
	if n < 0 || n > len(s.items) {
		return fmt.Errorf("%w: reverse count %d", ErrInvalidParameter, n)
	}
	if n <= 1 {
		return nil
	}
	start := len(s.items) - n
	for i, j := start, len(s.items)-1; i < j; i, j = i+1, j-1 {
		s.items[i], s.items[j] = s.items[j], s.items[i]
	}
	return nil
}

// Clear empties the stack, releasing every stack reference.
func (s *EvaluationStack) Clear() {
	for _, item := range s.items {
		s.refs.RemoveStackReference(item)
	}
	s.items = nil
}

// CopyTo appends the top count items of s onto dst without disturbing s.
// A negative count copies the entire stack.
func (s *EvaluationStack) CopyTo(dst *EvaluationStack, count int) {
	if count < 0 {
		count = len(s.items)
	}
	if count == 0 {
		return
	}
	start := len(s.items) - count
	if start < 0 {
		start = 0
	}
	for _, item := range s.items[start:] {
		dst.items = append(dst.items, item)
		dst.refs.AddStackReference(item, 1)
	}
}

// MoveTo transfers the top count items of s onto dst, removing them from s.
// A negative count moves the entire stack.
func (s *EvaluationStack) MoveTo(dst *EvaluationStack, count int) {
	if count < 0 {
		count = len(s.items)
	}
	if count == 0 {
		return
	}
	start := len(s.items) - count
	if start < 0 {
		start = 0
	}
	moved := s.items[start:]
	for _, item := range moved {
		dst.items = append(dst.items, item)
		dst.refs.AddStackReference(item, 1)
		s.refs.RemoveStackReference(item)
	}
	s.items = s.items[:start]
}

// Items returns the stack contents bottom-to-top (for diagnostics/tests).
func (s *EvaluationStack) Items() []Item { return s.items }

func (s *EvaluationStack) String() string {
	out := "["
	for i := len(s.items) - 1; i >= 0; i-- {
		if i != len(s.items)-1 {
			out += ", "
		}
		out += fmt.Sprintf("%s(%v)", s.items[i].Type(), s.items[i])
	}
	return out + "]"
}
