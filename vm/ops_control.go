package vm

import "fmt"

func registerControlOps(t *JumpTable) {
	t.register(NOP, "NOP", 0, func(e *Engine, in Instruction) error { return nil })

	t.register(JMP, "JMP", 0, opJump(func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMP_L, "JMP_L", 0, opJump(func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPIF, "JMPIF", 1, opJumpIf(true, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPIF_L, "JMPIF_L", 1, opJumpIf(true, func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPIFNOT, "JMPIFNOT", 1, opJumpIf(false, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPIFNOT_L, "JMPIFNOT_L", 1, opJumpIf(false, func(in Instruction) int { return int(in.TokenI32()) }))

	t.register(JMPEQ, "JMPEQ", 2, opJumpCompare(func(c int) bool { return c == 0 }, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPEQ_L, "JMPEQ_L", 2, opJumpCompare(func(c int) bool { return c == 0 }, func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPNE, "JMPNE", 2, opJumpCompare(func(c int) bool { return c != 0 }, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPNE_L, "JMPNE_L", 2, opJumpCompare(func(c int) bool { return c != 0 }, func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPGT, "JMPGT", 2, opJumpCompare(func(c int) bool { return c > 0 }, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPGT_L, "JMPGT_L", 2, opJumpCompare(func(c int) bool { return c > 0 }, func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPGE, "JMPGE", 2, opJumpCompare(func(c int) bool { return c >= 0 }, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPGE_L, "JMPGE_L", 2, opJumpCompare(func(c int) bool { return c >= 0 }, func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPLT, "JMPLT", 2, opJumpCompare(func(c int) bool { return c < 0 }, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPLT_L, "JMPLT_L", 2, opJumpCompare(func(c int) bool { return c < 0 }, func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(JMPLE, "JMPLE", 2, opJumpCompare(func(c int) bool { return c <= 0 }, func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(JMPLE_L, "JMPLE_L", 2, opJumpCompare(func(c int) bool { return c <= 0 }, func(in Instruction) int { return int(in.TokenI32()) }))

	t.register(CALL, "CALL", 0, opCall(func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(CALL_L, "CALL_L", 0, opCall(func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(CALLA, "CALLA", 1, opCallA)
	t.register(CALLT, "CALLT", 0, opCallT)

	t.register(ABORT, "ABORT", 0, func(e *Engine, in Instruction) error { return ErrAborted })
	t.register(ASSERT, "ASSERT", 1, opAssert)
	t.register(THROW, "THROW", 1, opThrow)

	t.register(TRY, "TRY", 0, opTry(func(in Instruction) (int, int) { return int(in.TokenI8()), int(in.TokenI8At1()) }))
	t.register(TRY_L, "TRY_L", 0, opTry(func(in Instruction) (int, int) { return int(in.TokenI32()), int(in.TokenI32At4()) }))
	t.register(ENDTRY, "ENDTRY", 0, opEndTry(func(in Instruction) int { return int(in.TokenI8()) }))
	t.register(ENDTRY_L, "ENDTRY_L", 0, opEndTry(func(in Instruction) int { return int(in.TokenI32()) }))
	t.register(ENDFINALLY, "ENDFINALLY", 0, func(e *Engine, in Instruction) error { return e.executeEndFinally() })

	t.register(RET, "RET", 0, opRet)
	t.register(SYSCALL, "SYSCALL", 0, opSyscall)

	t.register(ABORTMSG, "ABORTMSG", 1, opAbortMsg)
	t.register(ASSERTMSG, "ASSERTMSG", 2, opAssertMsg)
}

func opJump(offset func(Instruction) int) OpHandler {
	return func(e *Engine, in Instruction) error {
		return e.executeJumpOffset(offset(in))
	}
}

func opJumpIf(wantTrue bool, offset func(Instruction) int) OpHandler {
	return func(e *Engine, in Instruction) error {
		item, err := e.Pop()
		if err != nil {
			return err
		}
		if item.Boolean() == wantTrue {
			return e.executeJumpOffset(offset(in))
		}
		return nil
	}
}

// opJumpCompare covers JMPEQ/JMPNE/JMPGT/JMPGE/JMPLT/JMPLE: pop two values,
// compare as integers, jump on the result.
func opJumpCompare(test func(cmp int) bool, offset func(Instruction) int) OpHandler {
	return func(e *Engine, in Instruction) error {
		x2, err := popBigInt(e)
		if err != nil {
			return err
		}
		x1, err := popBigInt(e)
		if err != nil {
			return err
		}
		if test(x1.Cmp(x2)) {
			return e.executeJumpOffset(offset(in))
		}
		return nil
	}
}

func opCall(offset func(Instruction) int) OpHandler {
	return func(e *Engine, in Instruction) error {
		return e.executeCall(e.CurrentContext().InstructionPointer() + offset(in))
	}
}

func opCallA(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	p, ok := item.(*Pointer)
	if !ok {
		return fmt.Errorf("%w: CALLA expects Pointer, got %s", ErrInvalidType, item.Type())
	}
	if p.Script != e.CurrentContext().Script() {
		return fmt.Errorf("%w: CALLA target script mismatch", ErrInvalidParameter)
	}
	return e.executeCall(p.Position)
}

func opCallT(e *Engine, in Instruction) error {
	if e.host == nil {
		return ErrNotImplemented
	}
	return e.host.LoadToken(e, in.TokenU16())
}

func opAssert(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	if !item.Boolean() {
		return ErrAssertionFailed
	}
	return nil
}

func opThrow(e *Engine, in Instruction) error {
	item, err := e.Pop()
	if err != nil {
		return err
	}
	return e.throw(item)
}

func opTry(offsets func(Instruction) (int, int)) OpHandler {
	return func(e *Engine, in Instruction) error {
		catchOffset, finallyOffset := offsets(in)
		return e.executeTry(catchOffset, finallyOffset)
	}
}

func opEndTry(offset func(Instruction) int) OpHandler {
	return func(e *Engine, in Instruction) error {
		return e.executeEndTry(offset(in))
	}
}

func opRet(e *Engine, in Instruction) error {
	n := len(e.invocationStack)
	ctx := e.invocationStack[n-1]
	e.invocationStack = e.invocationStack[:n-1]

	var dst *EvaluationStack
	if len(e.invocationStack) == 0 {
		dst = e.resultStack
	} else {
		dst = e.invocationStack[len(e.invocationStack)-1].EvaluationStack()
	}

	src := ctx.EvaluationStack()
	if src != dst {
		if ctx.RVCount() >= 0 && src.Count() != ctx.RVCount() {
			return fmt.Errorf("%w: RET expected %d return values, have %d", ErrInvalidParameter, ctx.RVCount(), src.Count())
		}
		src.MoveTo(dst, -1)
	}

	if len(e.invocationStack) == 0 {
		e.state = StateHalt
	}

	e.unloadContext(ctx)
	e.isJumping = true
	return nil
}

func opSyscall(e *Engine, in Instruction) error {
	if e.host == nil {
		return ErrNotImplemented
	}
	return e.host.SysCall(e, in.TokenU32())
}

func popMessage(e *Engine) (string, error) {
	item, err := e.Pop()
	if err != nil {
		return "", err
	}
	b, err := item.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func opAbortMsg(e *Engine, in Instruction) error {
	msg, err := popMessage(e)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrAborted, msg)
}

func opAssertMsg(e *Engine, in Instruction) error {
	msg, err := popMessage(e)
	if err != nil {
		return err
	}
	item, err := e.Pop()
	if err != nil {
		return err
	}
	if !item.Boolean() {
		return fmt.Errorf("%w: %s", ErrAssertionFailed, msg)
	}
	return nil
}
