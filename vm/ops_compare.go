package vm

func registerCompareOps(t *JumpTable) {
	t.register(NUMEQUAL, "NUMEQUAL", 2, binaryIntCompare(func(cmp int) bool { return cmp == 0 }))
	t.register(NUMNOTEQUAL, "NUMNOTEQUAL", 2, binaryIntCompare(func(cmp int) bool { return cmp != 0 }))
	t.register(LT, "LT", 2, opOrdering(func(cmp int) bool { return cmp < 0 }))
	t.register(LE, "LE", 2, opOrdering(func(cmp int) bool { return cmp <= 0 }))
	t.register(GT, "GT", 2, opOrdering(func(cmp int) bool { return cmp > 0 }))
	t.register(GE, "GE", 2, opOrdering(func(cmp int) bool { return cmp >= 0 }))
	t.register(MIN, "MIN", 2, opMinMax(true))
	t.register(MAX, "MAX", 2, opMinMax(false))
	t.register(WITHIN, "WITHIN", 3, opWithin)
}

// binaryIntCompare covers NUMEQUAL/NUMNOTEQUAL, which always coerce both
// operands to Integer (no Null short-circuit, unlike LT/LE/GT/GE).
func binaryIntCompare(fn func(cmp int) bool) OpHandler {
	return func(e *Engine, in Instruction) error {
		x2, err := popBigInt(e)
		if err != nil {
			return err
		}
		x1, err := popBigInt(e)
		if err != nil {
			return err
		}
		pushBool(e, fn(x1.Cmp(x2)))
		return nil
	}
}

// opOrdering covers LT/LE/GT/GE: if either operand is Null, the comparison
// is false rather than a type-conversion fault.
func opOrdering(test func(cmp int) bool) OpHandler {
	return func(e *Engine, in Instruction) error {
		x2, err := e.Pop()
		if err != nil {
			return err
		}
		x1, err := e.Pop()
		if err != nil {
			return err
		}
		if x1 == Null || x2 == Null {
			pushBool(e, false)
			return nil
		}
		i1, err := x1.Integer()
		if err != nil {
			return err
		}
		i2, err := x2.Integer()
		if err != nil {
			return err
		}
		pushBool(e, test(i1.Cmp(i2)))
		return nil
	}
}

func opMinMax(wantMin bool) OpHandler {
	return func(e *Engine, in Instruction) error {
		x2, err := popBigInt(e)
		if err != nil {
			return err
		}
		x1, err := popBigInt(e)
		if err != nil {
			return err
		}
		cmp := x1.Cmp(x2)
		pickFirst := (wantMin && cmp <= 0) || (!wantMin && cmp >= 0)
		if pickFirst {
			return pushInt(e, x1)
		}
		return pushInt(e, x2)
	}
}

func opWithin(e *Engine, in Instruction) error {
	b, err := popBigInt(e)
	if err != nil {
		return err
	}
	a, err := popBigInt(e)
	if err != nil {
		return err
	}
	x, err := popBigInt(e)
	if err != nil {
		return err
	}
	pushBool(e, a.Cmp(x) <= 0 && x.Cmp(b) < 0)
	return nil
}
