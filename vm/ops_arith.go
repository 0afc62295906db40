package vm

import (
	"fmt"
	"math/big"
)

func registerArithOps(t *JumpTable) {
	t.register(SIGN, "SIGN", 1, unaryInt(func(x *big.Int) *big.Int { return big.NewInt(int64(x.Sign())) }))
	t.register(ABS, "ABS", 1, unaryInt(func(x *big.Int) *big.Int { return new(big.Int).Abs(x) }))
	t.register(NEGATE, "NEGATE", 1, unaryInt(func(x *big.Int) *big.Int { return new(big.Int).Neg(x) }))
	t.register(INC, "INC", 1, unaryInt(func(x *big.Int) *big.Int { return new(big.Int).Add(x, bigOne) }))
	t.register(DEC, "DEC", 1, unaryInt(func(x *big.Int) *big.Int { return new(big.Int).Sub(x, bigOne) }))
	t.register(SQRT, "SQRT", 1, opSqrt)

	t.register(ADD, "ADD", 2, binaryInt(func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Add(x1, x2), nil }))
	t.register(SUB, "SUB", 2, binaryInt(func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Sub(x1, x2), nil }))
	t.register(MUL, "MUL", 2, binaryInt(func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Mul(x1, x2), nil }))
	t.register(DIV, "DIV", 2, binaryInt(opDiv))
	t.register(MOD, "MOD", 2, binaryInt(opMod))
	t.register(POW, "POW", 2, opPow)
	t.register(MODMUL, "MODMUL", 3, opModMul)
	t.register(MODPOW, "MODPOW", 3, opModPow)
	t.register(SHL, "SHL", 2, opShl)
	t.register(SHR, "SHR", 2, opShr)

	t.register(NOT, "NOT", 1, opLogicalNot)
	t.register(BOOLAND, "BOOLAND", 2, opBoolAnd)
	t.register(BOOLOR, "BOOLOR", 2, opBoolOr)
	t.register(NZ, "NZ", 1, func(e *Engine, in Instruction) error {
		x, err := popBigInt(e)
		if err != nil {
			return err
		}
		pushBool(e, x.Sign() != 0)
		return nil
	})
}

func unaryInt(fn func(x *big.Int) *big.Int) OpHandler {
	return func(e *Engine, in Instruction) error {
		x, err := popBigInt(e)
		if err != nil {
			return err
		}
		return pushInt(e, fn(x))
	}
}

func binaryInt(fn func(x1, x2 *big.Int) (*big.Int, error)) OpHandler {
	return func(e *Engine, in Instruction) error {
		x2, err := popBigInt(e)
		if err != nil {
			return err
		}
		x1, err := popBigInt(e)
		if err != nil {
			return err
		}
		result, err := fn(x1, x2)
		if err != nil {
			return err
		}
		return pushInt(e, result)
	}
}

func opSqrt(e *Engine, in Instruction) error {
	x, err := popBigInt(e)
	if err != nil {
		return err
	}
	if x.Sign() < 0 {
		return fmt.Errorf("%w: SQRT of negative integer", ErrInvalidParameter)
	}
	return pushInt(e, new(big.Int).Sqrt(x))
}

func opDiv(x1, x2 *big.Int) (*big.Int, error) {
	if x2.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return new(big.Int).Quo(x1, x2), nil
}

func opMod(x1, x2 *big.Int) (*big.Int, error) {
	if x2.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return new(big.Int).Rem(x1, x2), nil
}

func opPow(e *Engine, in Instruction) error {
	exponent, err := popBigInt(e)
	if err != nil {
		return err
	}
	if !exponent.IsInt64() || exponent.Sign() < 0 || exponent.Int64() > int64(e.limits.MaxShift) {
		return fmt.Errorf("%w: POW exponent out of range", ErrInvalidShift)
	}
	value, err := popBigInt(e)
	if err != nil {
		return err
	}
	return pushInt(e, new(big.Int).Exp(value, exponent, nil))
}

func opModMul(e *Engine, in Instruction) error {
	modulus, err := popBigInt(e)
	if err != nil {
		return err
	}
	x2, err := popBigInt(e)
	if err != nil {
		return err
	}
	x1, err := popBigInt(e)
	if err != nil {
		return err
	}
	if modulus.Sign() == 0 {
		return ErrDivisionByZero
	}
	result := new(big.Int).Mul(x1, x2)
	result.Mod(result, modulus)
	return pushInt(e, result)
}

func opModPow(e *Engine, in Instruction) error {
	modulus, err := popBigInt(e)
	if err != nil {
		return err
	}
	exponent, err := popBigInt(e)
	if err != nil {
		return err
	}
	value, err := popBigInt(e)
	if err != nil {
		return err
	}
	if modulus.Sign() == 0 {
		return ErrDivisionByZero
	}
	if exponent.Cmp(big.NewInt(-1)) == 0 {
		result := new(big.Int).ModInverse(value, modulus)
		if result == nil {
			return fmt.Errorf("%w: no modular inverse", ErrInvalidParameter)
		}
		return pushInt(e, result)
	}
	if exponent.Sign() < 0 {
		return fmt.Errorf("%w: MODPOW exponent must be -1 or non-negative", ErrInvalidParameter)
	}
	return pushInt(e, new(big.Int).Exp(value, exponent, modulus))
}

func opShl(e *Engine, in Instruction) error {
	shift, err := popBigInt(e)
	if err != nil {
		return err
	}
	n, err := shiftAmount(e, shift)
	if err != nil {
		return err
	}
	x, err := popBigInt(e)
	if err != nil {
		return err
	}
	return pushInt(e, new(big.Int).Lsh(x, uint(n)))
}

func opShr(e *Engine, in Instruction) error {
	shift, err := popBigInt(e)
	if err != nil {
		return err
	}
	n, err := shiftAmount(e, shift)
	if err != nil {
		return err
	}
	x, err := popBigInt(e)
	if err != nil {
		return err
	}
	return pushInt(e, new(big.Int).Rsh(x, uint(n)))
}

func shiftAmount(e *Engine, shift *big.Int) (int, error) {
	if !shift.IsInt64() || shift.Sign() < 0 || shift.Int64() > int64(e.limits.MaxShift) {
		return 0, fmt.Errorf("%w: shift=%s", ErrInvalidShift, shift)
	}
	return int(shift.Int64()), nil
}

func opLogicalNot(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	pushBool(e, !item.Boolean())
	return nil
}

func opBoolAnd(e *Engine, in Instruction) error {
	x2, err := e.Pop()
	if err != nil {
		return err
	}
	x1, err := e.Pop()
	if err != nil {
		return err
	}
	pushBool(e, x1.Boolean() && x2.Boolean())
	return nil
}

func opBoolOr(e *Engine, in Instruction) error {
	x2, err := e.Pop()
	if err != nil {
		return err
	}
	x1, err := e.Pop()
	if err != nil {
		return err
	}
	pushBool(e, x1.Boolean() || x2.Boolean())
	return nil
}
