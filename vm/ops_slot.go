package vm

import "fmt"

func registerSlotOps(t *JumpTable) {
	t.register(INITSSLOT, "INITSSLOT", 0, opInitSSlot)
	t.register(INITSLOT, "INITSLOT", 0, opInitSlot)

	registerSlotFamily(t, LDSFLD0, LDSFLD, "LDSFLD", loadStaticField)
	registerSlotFamily(t, STSFLD0, STSFLD, "STSFLD", storeStaticField)
	registerSlotFamily(t, LDLOC0, LDLOC, "LDLOC", loadLocal)
	registerSlotFamily(t, STLOC0, STLOC, "STLOC", storeLocal)
	registerSlotFamily(t, LDARG0, LDARG, "LDARG", loadArg)
	registerSlotFamily(t, STARG0, STARG, "STARG", storeArg)
}

// registerSlotFamily registers the seven fixed-index opcodes (base..base+6)
// plus the single indexed opcode (indexed, whose operand supplies the
// index) that every slot family follows: LDSFLD0..6/LDSFLD,
// STSFLD0..6/STSFLD, and so on.
func registerSlotFamily(t *JumpTable, base, indexed OpCode, name string, fn func(e *Engine, index int) error) {
	for i := 0; i <= 6; i++ {
		idx := i
		t.register(OpCode(int(base)+i), fmt.Sprintf("%s%d", name, i), 0, func(e *Engine, in Instruction) error {
			return fn(e, idx)
		})
	}
	t.register(indexed, name, 0, func(e *Engine, in Instruction) error {
		return fn(e, int(in.TokenU8()))
	})
}

func opInitSSlot(e *Engine, in Instruction) error {
	count := int(in.TokenU8())
	if count == 0 {
		return fmt.Errorf("%w: INITSSLOT with zero count", ErrInvalidParameter)
	}
	ctx := e.CurrentContext()
	if ctx.StaticFields() != nil {
		return fmt.Errorf("%w: static fields already initialized", ErrInvalidParameter)
	}
	ctx.SetStaticFields(NewSlotWithCount(count, e.refs))
	return nil
}

func opInitSlot(e *Engine, in Instruction) error {
	localCount := int(in.TokenU8())
	argCount := int(in.TokenU8At1())
	if localCount+argCount == 0 {
		return nil
	}
	ctx := e.CurrentContext()
	if ctx.LocalVariables() != nil || ctx.Arguments() != nil {
		return fmt.Errorf("%w: locals/arguments already initialized", ErrInvalidParameter)
	}
	if localCount > 0 {
		ctx.SetLocalVariables(NewSlotWithCount(localCount, e.refs))
	}
	if argCount > 0 {
		args := make([]Item, argCount)
		for i := argCount - 1; i >= 0; i-- {
			item, err := e.Pop()
			if err != nil {
				return err
			}
			args[i] = item
		}
		ctx.SetArguments(NewSlot(args, e.refs))
	}
	return nil
}

func loadStaticField(e *Engine, index int) error {
	fields := e.CurrentContext().StaticFields()
	if fields == nil || index >= fields.Count() {
		return fmt.Errorf("%w: static field %d", ErrInvalidParameter, index)
	}
	e.Push(fields.Get(index))
	return nil
}

func storeStaticField(e *Engine, index int) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	fields := e.CurrentContext().StaticFields()
	if fields == nil || index >= fields.Count() {
		return fmt.Errorf("%w: static field %d", ErrInvalidParameter, index)
	}
	fields.Set(index, item)
	return nil
}

func loadLocal(e *Engine, index int) error {
	locals := e.CurrentContext().LocalVariables()
	if locals == nil || index >= locals.Count() {
		return fmt.Errorf("%w: local variable %d", ErrInvalidParameter, index)
	}
	e.Push(locals.Get(index))
	return nil
}

func storeLocal(e *Engine, index int) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	locals := e.CurrentContext().LocalVariables()
	if locals == nil || index >= locals.Count() {
		return fmt.Errorf("%w: local variable %d", ErrInvalidParameter, index)
	}
	locals.Set(index, item)
	return nil
}

func loadArg(e *Engine, index int) error {
	args := e.CurrentContext().Arguments()
	if args == nil || index >= args.Count() {
		return fmt.Errorf("%w: argument %d", ErrInvalidParameter, index)
	}
	e.Push(args.Get(index))
	return nil
}

func storeArg(e *Engine, index int) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	args := e.CurrentContext().Arguments()
	if args == nil || index >= args.Count() {
		return fmt.Errorf("%w: argument %d", ErrInvalidParameter, index)
	}
	args.Set(index, item)
	return nil
}
