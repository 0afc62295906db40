package vm

import (
	"fmt"
	"math/big"
)

func registerCompoundOps(t *JumpTable) {
	t.register(PACKMAP, "PACKMAP", 1, opPackMap)
	t.register(PACKSTRUCT, "PACKSTRUCT", 1, opPack(true))
	t.register(PACK, "PACK", 1, opPack(false))
	t.register(UNPACK, "UNPACK", 1, opUnpack)

	t.register(NEWARRAY0, "NEWARRAY0", 0, func(e *Engine, in Instruction) error {
		e.Push(NewArray(nil, e.ReferenceCounter()))
		return nil
	})
	t.register(NEWARRAY, "NEWARRAY", 1, opNewArray(false))
	t.register(NEWARRAY_T, "NEWARRAY_T", 1, opNewArrayT)
	t.register(NEWSTRUCT0, "NEWSTRUCT0", 0, func(e *Engine, in Instruction) error {
		e.Push(NewStruct(nil, e.ReferenceCounter()))
		return nil
	})
	t.register(NEWSTRUCT, "NEWSTRUCT", 1, opNewArray(true))
	t.register(NEWMAP, "NEWMAP", 0, func(e *Engine, in Instruction) error {
		e.Push(NewMap(e.ReferenceCounter()))
		return nil
	})

	t.register(SIZE, "SIZE", 1, opSize)
	t.register(HASKEY, "HASKEY", 2, opHasKey)
	t.register(KEYS, "KEYS", 1, opKeys)
	t.register(VALUES, "VALUES", 1, opValues)
	t.register(PICKITEM, "PICKITEM", 2, opPickItem)
	t.register(APPEND, "APPEND", 2, opAppend)
	t.register(SETITEM, "SETITEM", 3, opSetItem)
	t.register(REVERSEITEMS, "REVERSEITEMS", 1, opReverseItems)
	t.register(REMOVE, "REMOVE", 2, opRemove)
	t.register(CLEARITEMS, "CLEARITEMS", 1, opClearItems)
	t.register(POPITEM, "POPITEM", 1, opPopItem)
}

func opPackMap(e *Engine, in Instruction) error {
	n, err := popInt(e)
	if err != nil {
		return err
	}
	if n < 0 || n > e.limits.MaxStackSize {
		return fmt.Errorf("%w: PACKMAP size %d", ErrInvalidParameter, n)
	}
	m := NewMap(e.ReferenceCounter())
	for i := 0; i < n; i++ {
		key, err := e.Pop()
		if err != nil {
			return err
		}
		value, err := e.Pop()
		if err != nil {
			return err
		}
		if err := m.Set(key, value); err != nil {
			return err
		}
	}
	e.Push(m)
	return nil
}

// opPack covers PACK and PACKSTRUCT: pop a size, then pop that many items,
// appending each in pop order (so the resulting collection's first element
// is whatever was on top of the stack).
func opPack(asStruct bool) OpHandler {
	return func(e *Engine, in Instruction) error {
		n, err := popInt(e)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxStackSize {
			return fmt.Errorf("%w: PACK size %d", ErrInvalidParameter, n)
		}
		items := make([]Item, n)
		for i := 0; i < n; i++ {
			item, err := e.Pop()
			if err != nil {
				return err
			}
			items[i] = item
		}
		if asStruct {
			e.Push(NewStruct(items, e.ReferenceCounter()))
		} else {
			e.Push(NewArray(items, e.ReferenceCounter()))
		}
		return nil
	}
}

// opUnpack spreads a Map as (value, key) pairs per entry or an Array/Struct
// as its elements in order, then pushes the element count on top.
func opUnpack(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Map:
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			e.Push(val)
			e.Push(k)
		}
		e.Push(mustInteger(v.Len()))
	case *Array:
		for _, it := range v.Items() {
			e.Push(it)
		}
		e.Push(mustInteger(v.Len()))
	case *Struct:
		for _, it := range v.Items() {
			e.Push(it)
		}
		e.Push(mustInteger(v.Len()))
	default:
		return fmt.Errorf("%w: UNPACK expects a compound, got %s", ErrInvalidType, item.Type())
	}
	return nil
}

func mustInteger(n int) Item {
	return MustNewInteger(big.NewInt(int64(n)))
}

func opNewArray(asStruct bool) OpHandler {
	return func(e *Engine, in Instruction) error {
		n, err := popInt(e)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxStackSize {
			return fmt.Errorf("%w: NEWARRAY size %d", ErrInvalidParameter, n)
		}
		items := make([]Item, n)
		for i := range items {
			items[i] = Null
		}
		if asStruct {
			e.Push(NewStruct(items, e.ReferenceCounter()))
		} else {
			e.Push(NewArray(items, e.ReferenceCounter()))
		}
		return nil
	}
}

func opNewArrayT(e *Engine, in Instruction) error {
	typeCode := in.TokenU8()
	if !IsValidItemType(typeCode) {
		return fmt.Errorf("%w: NEWARRAY_T %d", ErrInvalidStackItemType, typeCode)
	}
	n, err := popInt(e)
	if err != nil {
		return err
	}
	if n < 0 || n > e.limits.MaxStackSize {
		return fmt.Errorf("%w: NEWARRAY_T size %d", ErrInvalidParameter, n)
	}
	var def Item
	switch ItemType(typeCode) {
	case TypeBoolean:
		def = Boolean(false)
	case TypeInteger:
		def = MustNewInteger(big.NewInt(0))
	case TypeByteString:
		def = NewByteString(nil)
	default:
		def = Null
	}
	items := make([]Item, n)
	for i := range items {
		items[i] = def
	}
	e.Push(NewArray(items, e.ReferenceCounter()))
	return nil
}

func opSize(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Integer:
		x, _ := v.Integer()
		e.Push(mustInteger(len(x.Bytes())))
	case *ByteString:
		b, _ := v.Bytes()
		e.Push(mustInteger(len(b)))
	case *Buffer:
		e.Push(mustInteger(v.Len()))
	case *Array:
		e.Push(mustInteger(v.Len()))
	case *Struct:
		e.Push(mustInteger(v.Len()))
	case *Map:
		e.Push(mustInteger(v.Len()))
	default:
		return fmt.Errorf("%w: SIZE not defined for %s", ErrInvalidType, item.Type())
	}
	return nil
}

func opHasKey(e *Engine, in Instruction) error {
	key, err := e.Pop()
	if err != nil {
		return err
	}
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Map:
		pushBool(e, v.Has(key))
	case *Array:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		pushBool(e, idx >= 0 && idx < v.Len())
	case *Struct:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		pushBool(e, idx >= 0 && idx < v.Len())
	case *Buffer:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		pushBool(e, idx >= 0 && idx < v.Len())
	default:
		return fmt.Errorf("%w: HASKEY not defined for %s", ErrInvalidType, item.Type())
	}
	return nil
}

func opKeys(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	m, ok := item.(*Map)
	if !ok {
		return fmt.Errorf("%w: KEYS expects Map, got %s", ErrInvalidType, item.Type())
	}
	e.Push(NewArray(m.Keys(), e.ReferenceCounter()))
	return nil
}

func opValues(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Map:
		e.Push(NewArray(v.Values(), e.ReferenceCounter()))
	case *Array:
		e.Push(NewArray(v.Items(), e.ReferenceCounter()))
	default:
		return fmt.Errorf("%w: VALUES expects Map or Array, got %s", ErrInvalidType, item.Type())
	}
	return nil
}

func opPickItem(e *Engine, in Instruction) error {
	key, err := e.Pop()
	if err != nil {
		return err
	}
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Map:
		value, ok := v.Get(key)
		if !ok {
			return fmt.Errorf("%w: PICKITEM key not present", ErrItemNotFound)
		}
		e.Push(value)
	case *Array:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%w: PICKITEM index %d", ErrInvalidParameter, idx)
		}
		e.Push(v.At(idx))
	case *Struct:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%w: PICKITEM index %d", ErrInvalidParameter, idx)
		}
		e.Push(v.At(idx))
	case *Buffer:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		b, _ := v.Bytes()
		if idx < 0 || idx >= len(b) {
			return fmt.Errorf("%w: PICKITEM index %d", ErrInvalidParameter, idx)
		}
		e.Push(MustNewInteger(big.NewInt(int64(b[idx]))))
	case *ByteString:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		b, _ := v.Bytes()
		if idx < 0 || idx >= len(b) {
			return fmt.Errorf("%w: PICKITEM index %d", ErrInvalidParameter, idx)
		}
		e.Push(MustNewInteger(big.NewInt(int64(b[idx]))))
	default:
		return fmt.Errorf("%w: PICKITEM not defined for %s", ErrInvalidType, item.Type())
	}
	return nil
}

func opAppend(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	coll, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := coll.(type) {
	case *Array:
		v.Append(item)
	case *Struct:
		v.Append(item)
	default:
		return fmt.Errorf("%w: APPEND expects Array or Struct, got %s", ErrInvalidType, coll.Type())
	}
	return nil
}

func opSetItem(e *Engine, in Instruction) error {
	value, err := e.Pop()
	if err != nil {
		return err
	}
	key, err := e.Pop()
	if err != nil {
		return err
	}
	coll, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := coll.(type) {
	case *Map:
		return v.Set(key, value)
	case *Array:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%w: SETITEM index %d", ErrInvalidParameter, idx)
		}
		v.Set(idx, value)
	case *Struct:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%w: SETITEM index %d", ErrInvalidParameter, idx)
		}
		v.Set(idx, value)
	case *Buffer:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		b, err := itemToInt(value)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() || b < 0 || b > 255 {
			return fmt.Errorf("%w: SETITEM index %d", ErrInvalidParameter, idx)
		}
		v.Set(idx, []byte{byte(b)})
	default:
		return fmt.Errorf("%w: SETITEM not defined for %s", ErrInvalidType, coll.Type())
	}
	return nil
}

func opReverseItems(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Array:
		v.Reverse()
	case *Struct:
		v.Reverse()
	case *Buffer:
		b, _ := v.Bytes()
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		v.Set(0, b)
	default:
		return fmt.Errorf("%w: REVERSEITEMS not defined for %s", ErrInvalidType, item.Type())
	}
	return nil
}

func opRemove(e *Engine, in Instruction) error {
	key, err := e.Pop()
	if err != nil {
		return err
	}
	coll, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := coll.(type) {
	case *Map:
		v.Remove(key)
	case *Array:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%w: REMOVE index %d", ErrInvalidParameter, idx)
		}
		v.RemoveAt(idx)
	case *Struct:
		idx, err := itemToInt(key)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%w: REMOVE index %d", ErrInvalidParameter, idx)
		}
		v.RemoveAt(idx)
	default:
		return fmt.Errorf("%w: REMOVE not defined for %s", ErrInvalidType, coll.Type())
	}
	return nil
}

func opClearItems(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Array:
		v.Clear()
	case *Struct:
		v.Clear()
	case *Map:
		v.Clear()
	default:
		return fmt.Errorf("%w: CLEARITEMS not defined for %s", ErrInvalidType, item.Type())
	}
	return nil
}

func opPopItem(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case *Array:
		if v.Len() == 0 {
			return fmt.Errorf("%w: POPITEM on empty Array", ErrInvalidParameter)
		}
		last := v.At(v.Len() - 1)
		v.RemoveAt(v.Len() - 1)
		e.Push(last)
	case *Struct:
		if v.Len() == 0 {
			return fmt.Errorf("%w: POPITEM on empty Struct", ErrInvalidParameter)
		}
		last := v.At(v.Len() - 1)
		v.RemoveAt(v.Len() - 1)
		e.Push(last)
	default:
		return fmt.Errorf("%w: POPITEM not defined for %s", ErrInvalidType, item.Type())
	}
	return nil
}
