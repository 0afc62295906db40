package vm

import "fmt"

func registerSpliceOps(t *JumpTable) {
	t.register(NEWBUFFER, "NEWBUFFER", 1, opNewBuffer)
	t.register(MEMCPY, "MEMCPY", 5, opMemcpy)
	t.register(CAT, "CAT", 2, opCat)
	t.register(SUBSTR, "SUBSTR", 3, opSubstr)
	t.register(LEFT, "LEFT", 2, opLeft)
	t.register(RIGHT, "RIGHT", 2, opRight)
}

func popBuffer(e *Engine) (*Buffer, error) {
	item, err := e.Pop()
	if err != nil {
		return nil, err
	}
	buf, ok := item.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: expected Buffer, got %s", ErrInvalidType, item.Type())
	}
	return buf, nil
}

func popBytesLike(e *Engine) ([]byte, error) {
	item, err := e.Pop()
	if err != nil {
		return nil, err
	}
	switch item.(type) {
	case *Buffer, *ByteString:
		return item.Bytes()
	default:
		return nil, fmt.Errorf("%w: expected Buffer or ByteString, got %s", ErrInvalidType, item.Type())
	}
}

func opNewBuffer(e *Engine, in Instruction) error {
	size, err := popInt(e)
	if err != nil {
		return err
	}
	if size < 0 || size > e.limits.MaxItemSize {
		return fmt.Errorf("%w: %d bytes", ErrItemTooLarge, size)
	}
	e.Push(NewBufferOfSize(size))
	return nil
}

func opMemcpy(e *Engine, in Instruction) error {
	count, err := popInt(e)
	if err != nil {
		return err
	}
	srcIndex, err := popInt(e)
	if err != nil {
		return err
	}
	src, err := popBuffer(e)
	if err != nil {
		return err
	}
	dstIndex, err := popInt(e)
	if err != nil {
		return err
	}
	dst, err := popBuffer(e)
	if err != nil {
		return err
	}
	if count < 0 || srcIndex < 0 || dstIndex < 0 ||
		srcIndex+count > src.Len() || dstIndex+count > dst.Len() {
		return fmt.Errorf("%w: MEMCPY range out of bounds", ErrInvalidParameter)
	}
	srcBytes, err := src.Bytes()
	if err != nil {
		return err
	}
	dst.Set(dstIndex, srcBytes[srcIndex:srcIndex+count])
	return nil
}

func opCat(e *Engine, in Instruction) error {
	b, err := popBytesLike(e)
	if err != nil {
		return err
	}
	a, err := popBytesLike(e)
	if err != nil {
		return err
	}
	result := append(append([]byte(nil), a...), b...)
	if len(result) > e.limits.MaxItemSize {
		return fmt.Errorf("%w: %d bytes", ErrItemTooLarge, len(result))
	}
	e.Push(NewByteString(result))
	return nil
}

func opSubstr(e *Engine, in Instruction) error {
	count, err := popInt(e)
	if err != nil {
		return err
	}
	index, err := popInt(e)
	if err != nil {
		return err
	}
	x, err := popBytesLike(e)
	if err != nil {
		return err
	}
	if count < 0 || index < 0 || index+count > len(x) {
		return fmt.Errorf("%w: SUBSTR range out of bounds", ErrInvalidParameter)
	}
	e.Push(NewByteString(x[index : index+count]))
	return nil
}

func opLeft(e *Engine, in Instruction) error {
	count, err := popInt(e)
	if err != nil {
		return err
	}
	x, err := popBytesLike(e)
	if err != nil {
		return err
	}
	if count < 0 || count > len(x) {
		return fmt.Errorf("%w: LEFT count out of bounds", ErrInvalidParameter)
	}
	e.Push(NewByteString(x[:count]))
	return nil
}

func opRight(e *Engine, in Instruction) error {
	count, err := popInt(e)
	if err != nil {
		return err
	}
	x, err := popBytesLike(e)
	if err != nil {
		return err
	}
	if count < 0 || count > len(x) {
		return fmt.Errorf("%w: RIGHT count out of bounds", ErrInvalidParameter)
	}
	e.Push(NewByteString(x[len(x)-count:]))
	return nil
}
