package vm

import (
	"fmt"
	"math/big"
)

// pushDataTypeThreshold is the byte length at or below which PUSHDATA*
// produces an immutable ByteString; above it, a Buffer (spec.md §constants).
const pushDataTypeThreshold = 1024

func registerPushOps(t *JumpTable) {
	t.register(PUSHINT8, "PUSHINT8", 0, opPushIntFixed)
	t.register(PUSHINT16, "PUSHINT16", 0, opPushIntFixed)
	t.register(PUSHINT32, "PUSHINT32", 0, opPushIntFixed)
	t.register(PUSHINT64, "PUSHINT64", 0, opPushIntFixed)
	t.register(PUSHINT128, "PUSHINT128", 0, opPushIntFixed)
	t.register(PUSHINT256, "PUSHINT256", 0, opPushIntFixed)

	t.register(PUSHT, "PUSHT", 0, func(e *Engine, in Instruction) error {
		e.Push(Boolean(true))
		return nil
	})
	t.register(PUSHF, "PUSHF", 0, func(e *Engine, in Instruction) error {
		e.Push(Boolean(false))
		return nil
	})
	t.register(PUSHNULL, "PUSHNULL", 0, func(e *Engine, in Instruction) error {
		e.Push(Null)
		return nil
	})
	t.register(PUSHM1, "PUSHM1", 0, pushSmallInt(-1))
	for i := 0; i <= 16; i++ {
		t.register(OpCode(int(PUSH0)+i), fmt.Sprintf("PUSH%d", i), 0, pushSmallInt(int64(i)))
	}

	t.register(PUSHA, "PUSHA", 0, opPushA)

	t.register(PUSHDATA1, "PUSHDATA1", 0, opPushData)
	t.register(PUSHDATA2, "PUSHDATA2", 0, opPushData)
	t.register(PUSHDATA4, "PUSHDATA4", 0, opPushData)
}

func pushSmallInt(v int64) OpHandler {
	return func(e *Engine, in Instruction) error {
		e.Push(MustNewInteger(big.NewInt(v)))
		return nil
	}
}

// opPushIntFixed handles PUSHINT8..PUSHINT256: the operand is the value's
// little-endian two's-complement encoding, already sized by the opcode.
func opPushIntFixed(e *Engine, in Instruction) error {
	v, err := IntegerFromBytesLE(in.Operand)
	if err != nil {
		return err
	}
	e.Push(MustNewInteger(v))
	return nil
}

// opPushA pushes a Pointer into the current script at ip+offset. The
// target is only range-checked here (push.rs does the same); CALLA checks
// only that the pointer belongs to the current script. Instruction-boundary
// checks of PUSHA targets happen only in strict mode, in Script.validate.
func opPushA(e *Engine, in Instruction) error {
	ctx := e.CurrentContext()
	offset := int(in.TokenI32())
	position := ctx.InstructionPointer() + offset
	if position < 0 || position > ctx.Script().Len() {
		return fmt.Errorf("%w: PUSHA target=%d", ErrInvalidJumpTarget, position)
	}
	e.Push(NewPointer(ctx.Script(), position))
	return nil
}

// opPushData handles PUSHDATA1/2/4: the size-prefixed operand is already
// decoded into in.Operand by Script.GetInstruction. Oversized payloads
// fault; payloads at or under the threshold become ByteString, larger ones
// a mutable Buffer.
func opPushData(e *Engine, in Instruction) error {
	if len(in.Operand) > e.limits.MaxItemSize {
		return fmt.Errorf("%w: %d bytes", ErrItemTooLarge, len(in.Operand))
	}
	if len(in.Operand) <= pushDataTypeThreshold {
		e.Push(NewByteString(in.Operand))
	} else {
		e.Push(NewBuffer(in.Operand))
	}
	return nil
}
