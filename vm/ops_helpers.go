package vm

import (
	"fmt"
	"math/big"
)

// popInt pops the top item and reads it as a machine int, faulting if it
// doesn't fit. Several opcode families (XDROP/PICK/ROLL/REVERSEN, SUBSTR,
// LEFT/RIGHT, NEWARRAY/NEWBUFFER sizes) take a count this way.
func popInt(e *Engine) (int, error) {
	item, err := e.Pop()
	if err != nil {
		return 0, err
	}
	return itemToInt(item)
}

func itemToInt(item Item) (int, error) {
	v, err := item.Integer()
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("%w: value does not fit a machine int", ErrInvalidParameter)
	}
	n := v.Int64()
	if n < int64(minInt) || n > int64(maxIntValue) {
		return 0, fmt.Errorf("%w: value does not fit a machine int", ErrInvalidParameter)
	}
	return int(n), nil
}

const (
	minInt      = -1 << 31
	maxIntValue = 1<<31 - 1
)

// popBigInt pops the top item and reads its integer value.
func popBigInt(e *Engine) (*big.Int, error) {
	item, err := e.Pop()
	if err != nil {
		return nil, err
	}
	return item.Integer()
}

func pushBool(e *Engine, v bool) { e.Push(Boolean(v)) }

func pushInt(e *Engine, v *big.Int) error {
	i, err := NewInteger(v, e.limits.MaxIntegerSize)
	if err != nil {
		return err
	}
	e.Push(i)
	return nil
}
