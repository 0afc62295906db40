package vm

import "fmt"

func registerTypeOps(t *JumpTable) {
	t.register(ISNULL, "ISNULL", 1, func(e *Engine, in Instruction) error {
		item, err := e.Pop()
		if err != nil {
			return err
		}
		pushBool(e, item == Null)
		return nil
	})
	t.register(ISTYPE, "ISTYPE", 1, opIsType)
	t.register(CONVERT, "CONVERT", 1, opConvert)
}

func opIsType(e *Engine, in Instruction) error {
	typeCode := in.TokenU8()
	if !IsValidItemType(typeCode) || ItemType(typeCode) == TypeAny {
		return fmt.Errorf("%w: ISTYPE %d", ErrInvalidStackItemType, typeCode)
	}
	item, err := e.Pop()
	if err != nil {
		return err
	}
	pushBool(e, item.Type() == ItemType(typeCode))
	return nil
}

func opConvert(e *Engine, in Instruction) error {
	typeCode := in.TokenU8()
	if !IsValidItemType(typeCode) {
		return fmt.Errorf("%w: CONVERT %d", ErrInvalidStackItemType, typeCode)
	}
	item, err := e.Pop()
	if err != nil {
		return err
	}
	converted, err := item.ConvertTo(ItemType(typeCode))
	if err != nil {
		return err
	}
	e.Push(converted)
	return nil
}
