package vm

import "math/big"

func registerBitwiseOps(t *JumpTable) {
	t.register(INVERT, "INVERT", 1, unaryInt(func(x *big.Int) *big.Int { return new(big.Int).Not(x) }))
	t.register(AND, "AND", 2, binaryInt(func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).And(x1, x2), nil }))
	t.register(OR, "OR", 2, binaryInt(func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Or(x1, x2), nil }))
	t.register(XOR, "XOR", 2, binaryInt(func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Xor(x1, x2), nil }))

	t.register(EQUAL, "EQUAL", 2, opEqual(false))
	t.register(NOTEQUAL, "NOTEQUAL", 2, opEqual(true))
}

func opEqual(negate bool) OpHandler {
	return func(e *Engine, in Instruction) error {
		x2, err := e.Pop()
		if err != nil {
			return err
		}
		x1, err := e.Pop()
		if err != nil {
			return err
		}
		eq, err := Equals(x1, x2, e.limits)
		if err != nil {
			return err
		}
		if negate {
			eq = !eq
		}
		pushBool(e, eq)
		return nil
	}
}
